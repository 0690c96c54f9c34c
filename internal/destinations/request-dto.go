package destinations

type DestinationRequest struct {
	Nom string `json:"nom" validate:"required,min=2,max=120"`
}
