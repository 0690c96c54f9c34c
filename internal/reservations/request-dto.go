package reservations

import "busbenin/internal/shared/utils/pagination"

// CreateReservationRequest is checked by the service, which returns *ValidationError
type CreateReservationRequest struct {
	TrajetID          string `json:"trajet_id"`
	NbPlaces          int    `json:"nb_places"`
	DateVoyage        string `json:"date_voyage"`
	Horaire           string `json:"horaire"`
	NomPassager       string `json:"nom_passager"`
	TelephonePassager string `json:"telephone_passager"`
	EmailPassager     string `json:"email_passager"`
	MoyenPaiement     string `json:"moyen_paiement"`
}

type InitiatePaymentRequest struct {
	CallbackURL string `json:"callback_url"`
}

type UpdateStatusRequest struct {
	Statut string `json:"statut"`
}

type ListQuery struct {
	pagination.Query
	Statut string `form:"statut" binding:"omitempty,oneof=en_attente confirmee annulee expiree"`
}
