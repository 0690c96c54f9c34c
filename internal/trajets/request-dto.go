package trajets

import "busbenin/internal/shared/utils/pagination"

type CreateTrajetRequest struct {
	Depart      string   `json:"depart" validate:"required,min=2,max=120"`
	Arrivee     string   `json:"arrivee" validate:"required,min=2,max=120,nefield=Depart"`
	Prix        int64    `json:"prix" validate:"required,min=1"`
	Horaires    []string `json:"horaires" validate:"required,min=1,max=24,dive,hhmm"`
	Gare        string   `json:"gare" validate:"omitempty,max=200"`
	CompagnieID string   `json:"compagnie_id" validate:"omitempty,uuid"`
}

type UpdateTrajetRequest struct {
	Depart   *string  `json:"depart" validate:"omitempty,min=2,max=120"`
	Arrivee  *string  `json:"arrivee" validate:"omitempty,min=2,max=120"`
	Prix     *int64   `json:"prix" validate:"omitempty,min=1"`
	Horaires []string `json:"horaires" validate:"omitempty,min=1,max=24,dive,hhmm"`
	Gare     *string  `json:"gare" validate:"omitempty,max=200"`
}

type SearchQuery struct {
	pagination.Query
	Depart  string `form:"depart"`
	Arrivee string `form:"arrivee"`
	PrixMax int64  `form:"prix_max" binding:"omitempty,min=0"`
}
