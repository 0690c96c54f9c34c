package main

import (
	"fmt"

	"busbenin/internal/compagnies"
	"busbenin/internal/destinations"
	"busbenin/internal/trajets"
	"busbenin/internal/users"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoPassword = "busbenin2026"

type Seeder struct {
	db *gorm.DB
}

var seedDestinations = []string{
	"Cotonou", "Porto-Novo", "Abomey-Calavi", "Ouidah", "Bohicon", "Abomey",
	"Lokossa", "Dassa-Zoumè", "Savè", "Parakou", "Djougou", "Natitingou",
	"Kandi", "Malanville",
}

type seedCompagnie struct {
	nom       string
	telephone string
	adresse   string
}

var seedCompagnies = []seedCompagnie{
	{"Baobab Express", "+22997000001", "Gare de Jonquet, Cotonou"},
	{"ATT", "+22996000002", "Carrefour Saint-Michel, Cotonou"},
	{"Confort Lines", "+22995000003", "Gare routière, Parakou"},
	{"La Poste Voyage", "+22994000004", "Ganhi, Cotonou"},
}

type seedTrajet struct {
	compagnie string
	depart    string
	arrivee   string
	prix      int64
	horaires  []string
	gare      string
}

var seedTrajets = []seedTrajet{
	{"Baobab Express", "Cotonou", "Parakou", 7000, []string{"06:00", "14:30"}, "Gare de Jonquet"},
	{"Baobab Express", "Parakou", "Cotonou", 7000, []string{"06:00", "15:00"}, "Gare routière de Parakou"},
	{"ATT", "Cotonou", "Natitingou", 10000, []string{"05:30"}, "Carrefour Saint-Michel"},
	{"ATT", "Cotonou", "Djougou", 9000, []string{"06:30", "13:00"}, "Carrefour Saint-Michel"},
	{"Confort Lines", "Parakou", "Malanville", 6000, []string{"07:00", "12:00"}, "Gare routière de Parakou"},
	{"Confort Lines", "Cotonou", "Kandi", 11000, []string{"05:00"}, "Étoile Rouge"},
	{"La Poste Voyage", "Cotonou", "Porto-Novo", 1500, []string{"07:00", "10:00", "16:00"}, "Ganhi"},
	{"La Poste Voyage", "Cotonou", "Bohicon", 3500, []string{"08:00", "15:30"}, "Ganhi"},
	{"La Poste Voyage", "Cotonou", "Lokossa", 2500, []string{"09:00"}, "Ganhi"},
	{"Baobab Express", "Cotonou", "Dassa-Zoumè", 5000, []string{"07:30"}, "Gare de Jonquet"},
}

// Clean removes reservations and catalogue rows. Profiles are kept.
func (s *Seeder) Clean() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tables := []string{"favoris", "avis", "reservations", "trajets", "compagnies", "destinations"}
		for _, table := range tables {
			fmt.Printf("  Deleting rows from %s\n", table)
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clean table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll is idempotent: rows that already exist are left untouched
func (s *Seeder) SeedAll() error {
	if err := s.SeedDestinations(); err != nil {
		return fmt.Errorf("failed to seed destinations: %w", err)
	}
	compagnieIDs, err := s.SeedCompagnies()
	if err != nil {
		return fmt.Errorf("failed to seed compagnies: %w", err)
	}
	if err := s.SeedTrajets(compagnieIDs); err != nil {
		return fmt.Errorf("failed to seed trajets: %w", err)
	}
	if err := s.SeedProfiles(compagnieIDs); err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}
	return nil
}

func (s *Seeder) SeedDestinations() error {
	fmt.Println("  📍 Seeding destinations...")
	rows := make([]destinations.Destination, 0, len(seedDestinations))
	for _, nom := range seedDestinations {
		rows = append(rows, destinations.Destination{Nom: nom})
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (s *Seeder) SeedCompagnies() (map[string]compagnies.Compagnie, error) {
	fmt.Println("  🚌 Seeding compagnies...")
	out := make(map[string]compagnies.Compagnie, len(seedCompagnies))
	for _, sc := range seedCompagnies {
		c := compagnies.Compagnie{Nom: sc.nom}
		err := s.db.Where(compagnies.Compagnie{Nom: sc.nom}).
			Attrs(compagnies.Compagnie{Telephone: sc.telephone, Adresse: sc.adresse}).
			FirstOrCreate(&c).Error
		if err != nil {
			return nil, fmt.Errorf("compagnie %s: %w", sc.nom, err)
		}
		out[sc.nom] = c
		fmt.Printf("    ✅ %s\n", c.Nom)
	}
	return out, nil
}

func (s *Seeder) SeedTrajets(byNom map[string]compagnies.Compagnie) error {
	fmt.Println("  🛣️  Seeding trajets...")
	for _, st := range seedTrajets {
		c, ok := byNom[st.compagnie]
		if !ok {
			return fmt.Errorf("unknown compagnie %q for trajet %s -> %s", st.compagnie, st.depart, st.arrivee)
		}
		t := trajets.Trajet{}
		err := s.db.Where(trajets.Trajet{CompagnieID: c.ID, Depart: st.depart, Arrivee: st.arrivee}).
			Attrs(trajets.Trajet{Prix: st.prix, Horaires: st.horaires, Gare: st.gare}).
			FirstOrCreate(&t).Error
		if err != nil {
			return fmt.Errorf("trajet %s -> %s: %w", st.depart, st.arrivee, err)
		}
		fmt.Printf("    ✅ %s %s -> %s (%d FCFA)\n", st.compagnie, st.depart, st.arrivee, st.prix)
	}
	return nil
}

// SeedProfiles creates one admin, one staff account per compagnie and one traveller
func (s *Seeder) SeedProfiles(byNom map[string]compagnies.Compagnie) error {
	fmt.Println("  👤 Seeding profiles...")
	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	profiles := []users.Profile{
		{Email: "admin@busbenin.bj", FullName: "Administrateur", Admin: true},
		{Email: "voyageur@busbenin.bj", FullName: "Koffi Mensah"},
	}
	for _, sc := range seedCompagnies {
		c := byNom[sc.nom]
		id := c.ID
		profiles = append(profiles, users.Profile{
			Email:       fmt.Sprintf("staff+%s@busbenin.bj", c.ID.String()[:8]),
			FullName:    "Agent " + c.Nom,
			CompagnieID: &id,
		})
	}

	for _, p := range profiles {
		p.Password = string(hashed)
		row := users.Profile{}
		if err := s.db.Where(users.Profile{Email: p.Email}).Attrs(p).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("profile %s: %w", p.Email, err)
		}
		fmt.Printf("    ✅ %s\n", row.Email)
	}
	fmt.Printf("  🔑 Demo password: %s\n", demoPassword)
	return nil
}
