package trajets

type PaginatedTrajets struct {
	Trajets    []Trajet `json:"trajets"`
	TotalCount int64    `json:"total_count"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

// HomeSelection feeds the landing page
type HomeSelection struct {
	Populaires []Trajet `json:"populaires"`
	MoinsChers []Trajet `json:"moins_chers"`
}
