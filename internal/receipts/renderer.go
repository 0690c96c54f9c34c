package receipts

import (
	"bytes"
	"fmt"

	"busbenin/internal/notifications"

	"github.com/phpdave11/gofpdf"
)

const (
	brandName = "Bus Benin"
	dash      = "-"
)

var brandColor = [3]int{0, 122, 94}

// Render produces the PDF for layout
func Render(r Receipt, layout Layout) ([]byte, error) {
	if layout == LayoutMobile {
		return renderMobile(r)
	}
	return renderDesktop(r)
}

func renderDesktop(r Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Reçu "+r.Number, true)
	pdf.SetAuthor(brandName, false)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 16, tr(brandName+" - Reçu de paiement"), "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(85, 6, tr("N° "+r.Number), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Émis le "+r.IssuedAt.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	section := func(title string, rows [][2]string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(brandColor[0], brandColor[1], brandColor[2])
		pdf.CellFormat(0, 8, tr(title), "B", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 11)
		for _, row := range rows {
			pdf.CellFormat(50, 7, tr(row[0]), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, tr(orDash(row[1])), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	section("Passager", [][2]string{
		{"Nom", r.Passenger},
		{"Téléphone", r.Telephone},
		{"Email", r.Email},
	})
	section("Voyage", [][2]string{
		{"Trajet", r.Depart + " -> " + r.Arrivee},
		{"Compagnie", r.Compagnie},
		{"Gare", r.Gare},
		{"Date", r.DateVoyage},
		{"Départ", r.Horaire},
		{"Places", fmt.Sprintf("%d", r.NbPlaces)},
	})
	section("Paiement", [][2]string{
		{"Moyen", r.MoyenPaiement},
		{"Transaction", r.TransactionID},
		{"Statut", r.Statut},
	})

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 245, 240)
	pdf.CellFormat(80, 8, tr("Désignation"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, tr("Qté"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(32, 8, "Prix unitaire", "1", 0, "R", true, 0, "")
	pdf.CellFormat(33, 8, "Montant", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(80, 8, tr("Billet "+r.Depart+" -> "+r.Arrivee), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, fmt.Sprintf("%d", r.NbPlaces), "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 8, notifications.FormatFCFA(r.PrixUnitaire), "1", 0, "R", false, 0, "")
	pdf.CellFormat(33, 8, notifications.FormatFCFA(r.MontantTotal), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(137, 10, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(33, 10, notifications.FormatFCFA(r.MontantTotal), "1", 1, "R", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr("Présentez ce reçu à la gare de départ au moins 30 minutes avant l'heure prévue. "+
		"Ce document fait foi de paiement."), "", "L", false)

	return output(pdf)
}

func renderMobile(r Receipt) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: 80, Ht: 120},
	})
	pdf.SetTitle("Ticket "+r.Number, true)
	pdf.SetMargins(5, 5, 5)
	pdf.SetAutoPageBreak(false, 5)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFillColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 9, brandName, "", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 5, r.Number, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(r.Depart+" -> "+r.Arrivee), "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	rows := [][2]string{
		{"Passager", r.Passenger},
		{"Compagnie", r.Compagnie},
		{"Date", r.DateVoyage},
		{"Départ", r.Horaire},
		{"Places", fmt.Sprintf("%d", r.NbPlaces)},
		{"Paiement", r.MoyenPaiement},
		{"Transaction", r.TransactionID},
	}
	for _, row := range rows {
		pdf.CellFormat(24, 5, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 5, tr(orDash(row[1])), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetDrawColor(brandColor[0], brandColor[1], brandColor[2])
	pdf.Line(5, pdf.GetY(), 75, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "TOTAL "+notifications.FormatFCFA(r.MontantTotal), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, tr("Émis le "+r.IssuedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return dash
	}
	return s
}
