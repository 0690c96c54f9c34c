package receipts

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"busbenin/internal/compagnies"
	"busbenin/internal/reservations"
	"busbenin/internal/shared/identity"
	"busbenin/internal/trajets"
	"busbenin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func confirmedReservation() *reservations.Reservation {
	tx := "101"
	cid := uuid.New()
	return &reservations.Reservation{
		ID:                   uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001"),
		UserID:               uuid.New(),
		NbPlaces:             2,
		DateVoyage:           "2026-03-12",
		Horaire:              "06:00",
		NomPassager:          "Afi Dossou",
		TelephonePassager:    "+22997000001",
		EmailPassager:        "afi@example.bj",
		MoyenPaiement:        reservations.MoyenMoov,
		MontantTotal:         3000,
		Statut:               reservations.StatutConfirmee,
		StatutPaiement:       reservations.PaiementApproved,
		FedapayTransactionID: &tx,
		Trajet: &trajets.Trajet{
			Depart:      "Cotonou",
			Arrivee:     "Natitingou",
			Gare:        "Gare de Jonquet",
			CompagnieID: cid,
			Compagnie:   &compagnies.Compagnie{ID: cid, Nom: "Confort Lines"},
		},
	}
}

func TestFromReservation(t *testing.T) {
	r := FromReservation(confirmedReservation(), time.Now())
	if r.Number != "REC-3F2A9C1E" {
		t.Fatalf("unexpected receipt number %q", r.Number)
	}
	if r.PrixUnitaire != 1500 || r.Compagnie != "Confort Lines" || r.MoyenPaiement != "Moov Money" {
		t.Fatalf("unexpected receipt %+v", r)
	}
	if r.FileName(LayoutDesktop) != "recu-bus-benin-3f2a9c1e.pdf" {
		t.Fatalf("unexpected desktop file name %q", r.FileName(LayoutDesktop))
	}
	if r.FileName(LayoutMobile) != "ticket-mobile-3f2a9c1e.pdf" {
		t.Fatalf("unexpected mobile file name %q", r.FileName(LayoutMobile))
	}
}

func TestRenderProducesPDF(t *testing.T) {
	r := FromReservation(confirmedReservation(), time.Now())
	for _, layout := range []Layout{LayoutDesktop, LayoutMobile} {
		out, err := Render(r, layout)
		if err != nil {
			t.Fatalf("%s: %v", layout, err)
		}
		if len(out) == 0 || !bytes.HasPrefix(out, []byte("%PDF-")) {
			t.Fatalf("%s: output is not a PDF", layout)
		}
	}
}

func TestParseLayout(t *testing.T) {
	if l, _ := ParseLayout(""); l != LayoutDesktop {
		t.Fatal("empty layout defaults to desktop")
	}
	if l, _ := ParseLayout("Mobile"); l != LayoutMobile {
		t.Fatal("layout is case-insensitive")
	}
	if _, err := ParseLayout("a5"); err == nil {
		t.Fatal("unknown layout must be rejected")
	}
}

type fakeSource struct {
	res *reservations.Reservation
	err error
}

func (f fakeSource) GetForReceipt(context.Context, identity.Actor, uuid.UUID) (*reservations.Reservation, error) {
	return f.res, f.err
}

func newEngine(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/reservations/:id/receipt", NewController(svc).Download)
	return r
}

func TestDownload(t *testing.T) {
	res := confirmedReservation()
	r := newEngine(NewService(fakeSource{res: res}, time.UTC, logger.NewNop()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/"+res.ID.String()+"/receipt?layout=mobile", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="ticket-mobile-3f2a9c1e.pdf"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestDownloadErrors(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{reservations.ErrReceiptUnavailable, http.StatusConflict},
		{reservations.ErrForbidden, http.StatusForbidden},
		{reservations.ErrReservationNotFound, http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		r := newEngine(NewService(fakeSource{err: c.err}, time.UTC, logger.NewNop()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reservations/"+uuid.NewString()+"/receipt", nil))
		if w.Code != c.want {
			t.Fatalf("%v: expected %d, got %d", c.err, c.want, w.Code)
		}
	}
}
