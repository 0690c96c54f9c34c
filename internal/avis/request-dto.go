package avis

type CreateAvisRequest struct {
	Note        int    `json:"note" validate:"required,min=1,max=5"`
	Commentaire string `json:"commentaire" validate:"omitempty,max=1000"`
}
