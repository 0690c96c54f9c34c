package compagnies

type CreateCompagnieRequest struct {
	Nom       string `json:"nom" validate:"required,min=2,max=150"`
	Telephone string `json:"telephone" validate:"omitempty,max=30"`
	Adresse   string `json:"adresse" validate:"omitempty,max=255"`
	LogoURL   string `json:"logo_url" validate:"omitempty,url,max=500"`
}

type UpdateCompagnieRequest struct {
	Nom       *string `json:"nom" validate:"omitempty,min=2,max=150"`
	Telephone *string `json:"telephone" validate:"omitempty,max=30"`
	Adresse   *string `json:"adresse" validate:"omitempty,max=255"`
	LogoURL   *string `json:"logo_url" validate:"omitempty,url,max=500"`
}
