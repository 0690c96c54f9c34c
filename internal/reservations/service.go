package reservations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"busbenin/internal/notifications"
	"busbenin/internal/shared/config"
	"busbenin/internal/shared/identity"
	"busbenin/internal/shared/validation"
	"busbenin/internal/trajets"
	"busbenin/pkg/fedapay"
	"busbenin/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	MinPlaces  = 1
	MaxPlaces  = 10
	dateLayout = "2006-01-02"
)

var phonePattern = regexp.MustCompile(`^\+229\d{8,10}$`)

// TrajetLookup resolves the booked trajet with its compagnie
type TrajetLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*trajets.Trajet, error)
}

// PaymentGateway is the part of the FedaPay client the booking flow uses
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req fedapay.CreateTransactionRequest) (*fedapay.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*fedapay.Transaction, error)
	CheckoutURL(tx *fedapay.Transaction) string
}

// ContactLookup returns the account email and name used when the passenger gave none
type ContactLookup interface {
	GetContact(ctx context.Context, userID uuid.UUID) (email, name string, err error)
}

type ServiceConfig struct {
	Location     *time.Location
	Currency     string
	Country      string
	CallbackURL  string
	InitialDelay time.Duration
	MaxBackoff   time.Duration
	MaxAttempts  int
	BatchSize    int
	PendingTTL   time.Duration
	ExpiryBatch  int
}

func ServiceConfigFrom(cfg *config.Config) ServiceConfig {
	return ServiceConfig{
		Location:     cfg.Location(),
		Currency:     cfg.FedaPay.Currency,
		Country:      cfg.FedaPay.Country,
		CallbackURL:  cfg.FedaPay.CallbackURL,
		InitialDelay: cfg.Reconcile.InitialDelay,
		MaxBackoff:   cfg.Reconcile.MaxBackoff,
		MaxAttempts:  cfg.Reconcile.MaxAttempts,
		BatchSize:    cfg.Reconcile.BatchSize,
		PendingTTL:   cfg.Expiry.PendingTTL,
		ExpiryBatch:  cfg.Expiry.BatchSize,
	}
}

func (c *ServiceConfig) applyDefaults() {
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.Currency == "" {
		c.Currency = "XOF"
	}
	if c.Country == "" {
		c.Country = "BJ"
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 30 * time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Minute
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 8
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.PendingTTL <= 0 {
		c.PendingTTL = 24 * time.Hour
	}
	if c.ExpiryBatch <= 0 {
		c.ExpiryBatch = 200
	}
}

type Service interface {
	Create(ctx context.Context, actor identity.Actor, req CreateReservationRequest) (*Reservation, error)
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Reservation, error)
	ListMine(ctx context.Context, actor identity.Actor, q ListQuery) (*PaginatedReservations, error)
	ListManaged(ctx context.Context, actor identity.Actor, q ListQuery) (*PaginatedReservations, error)
	Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Outcome, error)
	UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, statut string) (*Outcome, error)
	GetForReceipt(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Reservation, error)

	InitiatePayment(ctx context.Context, actor identity.Actor, id uuid.UUID, callbackURL string) (*PaymentSession, error)
	Verify(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Outcome, error)
	Reconcile(ctx context.Context, id uuid.UUID) (*Outcome, error)
	ReconcileTransaction(ctx context.Context, transactionID string) (*Outcome, error)

	RunReconcileSweep(ctx context.Context) (*SweepResult, error)
	RunExpirySweep(ctx context.Context) (int, error)
}

type service struct {
	repo      Repository
	trajets   TrajetLookup
	gateway   PaymentGateway
	publisher notifications.Publisher
	contacts  ContactLookup
	config    ServiceConfig
	validate  *validator.Validate
	log       *logger.Logger
	now       func() time.Time
}

// NewService wires the booking flow; publisher and contacts may be nil
func NewService(
	repo Repository,
	trajetLookup TrajetLookup,
	gateway PaymentGateway,
	publisher notifications.Publisher,
	contacts ContactLookup,
	cfg ServiceConfig,
	log *logger.Logger,
) Service {
	cfg.applyDefaults()
	return &service{
		repo:      repo,
		trajets:   trajetLookup,
		gateway:   gateway,
		publisher: publisher,
		contacts:  contacts,
		config:    cfg,
		validate:  validation.New(),
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, req CreateReservationRequest) (*Reservation, error) {
	trajetID, err := s.validateCreate(&req)
	if err != nil {
		return nil, err
	}

	trajet, err := s.trajets.Get(ctx, trajetID)
	if err != nil {
		if errors.Is(err, trajets.ErrTrajetNotFound) {
			return nil, ErrTrajetNotFound
		}
		return nil, &PersistenceError{Op: "load_trajet", Err: err}
	}
	if !trajet.HasHoraire(req.Horaire) {
		return nil, &ValidationError{Field: "horaire", Msg: "is not a departure time of this trajet"}
	}

	res := &Reservation{
		UserID:            actor.UserID,
		TrajetID:          trajet.ID,
		NbPlaces:          req.NbPlaces,
		DateVoyage:        req.DateVoyage,
		Horaire:           req.Horaire,
		NomPassager:       req.NomPassager,
		TelephonePassager: req.TelephonePassager,
		EmailPassager:     req.EmailPassager,
		MoyenPaiement:     MoyenPaiement(req.MoyenPaiement),
		MontantTotal:      trajet.Prix * int64(req.NbPlaces),
		Statut:            StatutEnAttente,
		StatutPaiement:    PaiementPending,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, &PersistenceError{Op: "create_reservation", Err: err}
	}
	res.Trajet = trajet

	s.log.LogReservationCreated(ctx, res.ID.String(), trajet.ID.String(), actor.UserID.String(), res.MontantTotal)
	s.publish(ctx, notifications.EventReservationCreated, res)
	return res, nil
}

// validateCreate normalizes req in place and checks every field that needs no store access
func (s *service) validateCreate(req *CreateReservationRequest) (uuid.UUID, error) {
	req.NomPassager = strings.TrimSpace(req.NomPassager)
	req.TelephonePassager = strings.Join(strings.Fields(req.TelephonePassager), "")
	req.EmailPassager = strings.TrimSpace(req.EmailPassager)
	req.MoyenPaiement = strings.ToLower(strings.TrimSpace(req.MoyenPaiement))
	req.Horaire = strings.TrimSpace(req.Horaire)
	req.DateVoyage = strings.TrimSpace(req.DateVoyage)

	trajetID, err := uuid.Parse(strings.TrimSpace(req.TrajetID))
	if err != nil {
		return uuid.Nil, &ValidationError{Field: "trajet_id", Msg: "must be a valid id"}
	}
	if req.NbPlaces < MinPlaces || req.NbPlaces > MaxPlaces {
		return uuid.Nil, &ValidationError{Field: "nb_places", Msg: fmt.Sprintf("must be between %d and %d", MinPlaces, MaxPlaces)}
	}

	day, err := time.ParseInLocation(dateLayout, req.DateVoyage, s.config.Location)
	if err != nil {
		return uuid.Nil, &ValidationError{Field: "date_voyage", Msg: "must use the YYYY-MM-DD format"}
	}
	if day.Format(dateLayout) < s.today() {
		return uuid.Nil, &ValidationError{Field: "date_voyage", Msg: "cannot be in the past"}
	}

	if req.Horaire == "" {
		return uuid.Nil, &ValidationError{Field: "horaire", Msg: "is required"}
	}
	if !phonePattern.MatchString(req.TelephonePassager) {
		return uuid.Nil, &ValidationError{Field: "telephone_passager", Msg: "must look like +229XXXXXXXX"}
	}
	if req.MoyenPaiement == "" {
		return uuid.Nil, &ValidationError{Field: "moyen_paiement", Msg: "is required"}
	}
	if !MoyenPaiement(req.MoyenPaiement).IsValid() {
		return uuid.Nil, &ValidationError{Field: "moyen_paiement", Msg: "must be one of mtn, moov, celtiis, card"}
	}
	if req.NomPassager == "" {
		return uuid.Nil, &ValidationError{Field: "nom_passager", Msg: "is required"}
	}
	if req.EmailPassager != "" {
		if err := s.validate.Var(req.EmailPassager, "email"); err != nil {
			return uuid.Nil, &ValidationError{Field: "email_passager", Msg: "must be a valid email"}
		}
	}
	return trajetID, nil
}

func (s *service) today() string {
	return s.now().In(s.config.Location).Format(dateLayout)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Op: "load_reservation", Err: err}
	}
	return res, nil
}

// canView lets the owner, admins and the operating compagnie's staff through
func canView(actor identity.Actor, res *Reservation) bool {
	if actor.IsAdmin() || res.UserID == actor.UserID {
		return true
	}
	cid, ok := res.CompagnieID()
	return ok && actor.IsStaffOf(cid)
}

func canManage(actor identity.Actor, res *Reservation) bool {
	if actor.IsAdmin() {
		return true
	}
	cid, ok := res.CompagnieID()
	return ok && actor.IsStaffOf(cid)
}

func (s *service) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Reservation, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, res) {
		return nil, ErrForbidden
	}
	return res, nil
}

func (s *service) GetForReceipt(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Reservation, error) {
	res, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if res.Statut != StatutConfirmee {
		return nil, ErrReceiptUnavailable
	}
	return res, nil
}

func (s *service) ListMine(ctx context.Context, actor identity.Actor, q ListQuery) (*PaginatedReservations, error) {
	userID := actor.UserID
	return s.list(ctx, q, ListFilter{UserID: &userID})
}

func (s *service) ListManaged(ctx context.Context, actor identity.Actor, q ListQuery) (*PaginatedReservations, error) {
	switch {
	case actor.IsAdmin():
		return s.list(ctx, q, ListFilter{})
	case actor.CompagnieID != nil:
		cid := *actor.CompagnieID
		return s.list(ctx, q, ListFilter{CompagnieID: &cid})
	default:
		return nil, ErrForbidden
	}
}

func (s *service) list(ctx context.Context, q ListQuery, f ListFilter) (*PaginatedReservations, error) {
	q.Normalize()
	f.Statut = Statut(q.Statut)
	f.Offset = q.Offset()
	f.Limit = q.Limit

	list, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, &PersistenceError{Op: "list_reservations", Err: err}
	}
	if list == nil {
		list = []Reservation{}
	}
	return &PaginatedReservations{
		Reservations: list,
		TotalCount:   total,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func (s *service) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*Outcome, error) {
	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID && !canManage(actor, res) {
		return nil, ErrForbidden
	}

	changed, err := s.repo.UpdatePending(ctx, id, map[string]interface{}{
		"statut":            StatutAnnulee,
		"statut_paiement":   PaiementCanceled,
		"next_reconcile_at": nil,
	})
	if err != nil {
		return nil, &PersistenceError{Op: "cancel_reservation", Err: err}
	}
	return s.finishTransition(ctx, res, changed, notifications.EventReservationCanceled, func() {
		s.log.LogReservationCancelled(ctx, id.String(), actor.UserID.String())
	})
}

// UpdateStatus lets staff close a pending reservation
func (s *service) UpdateStatus(ctx context.Context, actor identity.Actor, id uuid.UUID, statut string) (*Outcome, error) {
	target := Statut(strings.TrimSpace(statut))
	updates := map[string]interface{}{"statut": target, "next_reconcile_at": nil}
	var event notifications.EventType

	switch target {
	case StatutConfirmee:
		event = notifications.EventReservationConfirmed
	case StatutAnnulee:
		updates["statut_paiement"] = PaiementCanceled
		event = notifications.EventReservationCanceled
	case StatutExpiree:
		event = notifications.EventReservationExpired
	default:
		return nil, &ValidationError{Field: "statut", Msg: "must be one of confirmee, annulee, expiree"}
	}

	res, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, res) {
		return nil, ErrForbidden
	}

	changed, err := s.repo.UpdatePending(ctx, id, updates)
	if err != nil {
		return nil, &PersistenceError{Op: "update_status", Err: err}
	}
	return s.finishTransition(ctx, res, changed, event, func() {
		s.log.InfoContext(ctx, "reservation status updated",
			"reservation_id", id.String(),
			"statut", target.String(),
			"actor_id", actor.UserID.String(),
		)
	})
}

// finishTransition reloads the row and, when it changed, logs and publishes
func (s *service) finishTransition(ctx context.Context, before *Reservation, changed bool, event notifications.EventType, onChange func()) (*Outcome, error) {
	after, err := s.load(ctx, before.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		onChange()
		s.publish(ctx, event, after)
	}
	return &Outcome{Reservation: after, Changed: changed}, nil
}
