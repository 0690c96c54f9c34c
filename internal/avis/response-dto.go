package avis

import (
	"time"

	"github.com/google/uuid"
)

type AvisResponse struct {
	ID          uuid.UUID `json:"id"`
	Note        int       `json:"note"`
	Commentaire string    `json:"commentaire"`
	Auteur      string    `json:"auteur"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateAvisResponse struct {
	Avis   AvisResponse `json:"avis"`
	Rating Rating       `json:"rating"`
}

func (a *Avis) ToResponse() AvisResponse {
	out := AvisResponse{
		ID:          a.ID,
		Note:        a.Note,
		Commentaire: a.Commentaire,
		CreatedAt:   a.CreatedAt,
	}
	if a.User != nil {
		out.Auteur = a.User.DisplayName()
	}
	return out
}
