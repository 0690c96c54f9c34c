package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the application logger; services receive it from main
type Logger struct {
	*slog.Logger
}

// New creates a logger at the given level ("debug", "info", "warn", "error")
func New(levelStr string) *Logger {
	return NewWithWriter(levelStr, os.Stdout)
}

// NewWithWriter writes text lines in gin debug mode and JSON lines otherwise
func NewWithWriter(levelStr string, w io.Writer) *Logger {
	level := getLogLevel(levelStr)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler).With(slog.String("service", "busbenin"))}
}

// NewNop returns a logger that discards everything, for tests and one-shot commands
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogHTTPRequest is called by the request middleware after the handler chain
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	status := c.Writer.Status()
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	}
	if q := c.Request.URL.RawQuery; q != "" {
		attrs = append(attrs, slog.String("query", q))
	}
	if route := c.FullPath(); route != "" {
		attrs = append(attrs, slog.String("route", route))
	}
	l.Logger.LogAttrs(c.Request.Context(), level, "HTTP Request", attrs...)
}

// Reservation lifecycle

func (l *Logger) LogReservationCreated(ctx context.Context, reservationID, trajetID, userID string, amount int64) {
	l.Logger.InfoContext(ctx, "Reservation Created",
		slog.String("reservation_id", reservationID),
		slog.String("trajet_id", trajetID),
		slog.String("user_id", userID),
		slog.Int64("montant_total", amount),
	)
}

func (l *Logger) LogPaymentInitiated(ctx context.Context, reservationID, transactionID string) {
	l.Logger.InfoContext(ctx, "Payment Initiated",
		slog.String("reservation_id", reservationID),
		slog.String("transaction_id", transactionID),
	)
}

func (l *Logger) LogReservationConfirmed(ctx context.Context, reservationID, transactionID string) {
	l.Logger.InfoContext(ctx, "Reservation Confirmed",
		slog.String("reservation_id", reservationID),
		slog.String("transaction_id", transactionID),
	)
}

func (l *Logger) LogReservationCancelled(ctx context.Context, reservationID, actorID string) {
	l.Logger.InfoContext(ctx, "Reservation Cancelled",
		slog.String("reservation_id", reservationID),
		slog.String("actor_id", actorID),
	)
}

func (l *Logger) LogReservationExpired(ctx context.Context, reservationID string) {
	l.Logger.InfoContext(ctx, "Reservation Expired",
		slog.String("reservation_id", reservationID),
	)
}

// LogReconcileFailed records a status lookup that will be retried by the sweep
func (l *Logger) LogReconcileFailed(ctx context.Context, reservationID string, attempt int, err error) {
	l.Logger.WarnContext(ctx, "Reconciliation Failed",
		slog.String("reservation_id", reservationID),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
	)
}

func (l *Logger) LogWebhookRejected(ctx context.Context, ip string, err error) {
	l.Logger.WarnContext(ctx, "Webhook Rejected",
		slog.String("ip", ip),
		slog.String("error", err.Error()),
	)
}

// Security

func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.Logger.InfoContext(ctx, "Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

func (l *Logger) LogAuthFailure(ctx context.Context, reason, email string) {
	l.Logger.WarnContext(ctx, "Authentication Failure",
		slog.String("reason", reason),
		slog.String("email", email),
	)
}

func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.Logger.WarnContext(ctx, "Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}
