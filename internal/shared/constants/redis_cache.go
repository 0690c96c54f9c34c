package constants

import (
	"fmt"
	"strings"
	"time"
)

// Redis cache keys and TTLs for Bus Benin.
// Pattern: busbenin:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG        = 24 * time.Hour   // destinations
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // compagnies
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // trajet listings
	TTL_DYNAMIC_SHORT      = 5 * time.Minute  // dashboards
)

const (
	CACHE_PREFIX = "busbenin"
)

// ================== CATALOGUE ==================

const (
	CACHE_KEY_COMPAGNIES_LIST  = CACHE_PREFIX + ":compagnies:list"
	CACHE_KEY_COMPAGNIE_DETAIL = CACHE_PREFIX + ":compagnies:detail:uuid:" // + compagnie-id

	CACHE_KEY_TRAJETS_HOME   = CACHE_PREFIX + ":trajets:home"
	CACHE_KEY_TRAJETS_SEARCH = CACHE_PREFIX + ":trajets:search" // + :depart:X:arrivee:Y:max:Z:page:P:limit:L
	CACHE_KEY_TRAJET_DETAIL  = CACHE_PREFIX + ":trajets:detail:uuid:"

	CACHE_KEY_DESTINATIONS_ALL = CACHE_PREFIX + ":destinations:all"
)

const (
	TTL_COMPAGNIES   = TTL_SEMI_STATIC_MEDIUM
	TTL_TRAJETS      = TTL_SEMI_STATIC_QUICK
	TTL_DESTINATIONS = TTL_STATIC_LONG
)

// ================== ANALYTICS ==================

const (
	CACHE_KEY_ANALYTICS_ADMIN_DASHBOARD   = CACHE_PREFIX + ":analytics:admin:dashboard"
	CACHE_KEY_ANALYTICS_COMPANY_DASHBOARD = CACHE_PREFIX + ":analytics:company:uuid:" // + compagnie-id
)

const (
	TTL_ANALYTICS_DASHBOARD = TTL_DYNAMIC_SHORT
)

// ================== INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_COMPAGNIES_ALL   = CACHE_PREFIX + ":compagnies:*"
	PATTERN_INVALIDATE_TRAJETS_ALL      = CACHE_PREFIX + ":trajets:*"
	PATTERN_INVALIDATE_DESTINATIONS_ALL = CACHE_PREFIX + ":destinations:*"
	PATTERN_INVALIDATE_ANALYTICS        = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildTrajetSearchKey -> "busbenin:trajets:search:depart:cotonou:arrivee:parakou:max:5000:page:1:limit:20"
func BuildTrajetSearchKey(depart, arrivee string, prixMax int64, page, limit int) string {
	return fmt.Sprintf("%s:depart:%s:arrivee:%s:max:%d:page:%d:limit:%d",
		CACHE_KEY_TRAJETS_SEARCH, keyPart(depart), keyPart(arrivee), prixMax, page, limit)
}

func BuildTrajetDetailKey(trajetID string) string {
	return CACHE_KEY_TRAJET_DETAIL + trajetID
}

func BuildCompagnieDetailKey(compagnieID string) string {
	return CACHE_KEY_COMPAGNIE_DETAIL + compagnieID
}

func BuildCompanyDashboardKey(compagnieID string) string {
	return CACHE_KEY_ANALYTICS_COMPANY_DASHBOARD + compagnieID
}

// keyPart lowercases and removes characters that would break key patterns
func keyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", ":", "_", "*", "_").Replace(s)
}

// ================== AUTH ==================

const (
	CACHE_KEY_REVOKED_REFRESH = CACHE_PREFIX + ":auth:revoked:" // + token jti
)

func BuildRevokedTokenKey(jti string) string {
	return CACHE_KEY_REVOKED_REFRESH + jti
}
