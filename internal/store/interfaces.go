// Package store defines the persistence interfaces the services depend on,
// plus the sentinel errors implementations translate database failures into.
package store

import (
	"context"

	"github.com/odyssey-travel/odyssey-backend/types"
)

// UserStore reads account records. Account management lives in the identity
// provider; this layer only resolves references.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
}

// TripStore handles trip persistence.
type TripStore interface {
	CreateTrip(ctx context.Context, trip *types.Trip) (*types.Trip, error)
	GetTrip(ctx context.Context, id string) (*types.Trip, error)
	ListTrips(ctx context.Context, userID string, limit, offset int) ([]*types.Trip, int, error)
	SearchTrips(ctx context.Context, userID string, criteria types.TripSearchCriteria, limit, offset int) ([]*types.Trip, int, error)
	UpdateTrip(ctx context.Context, id string, update *types.TripUpdate) (*types.Trip, error)
	UpdateTripStatus(ctx context.Context, id string, status types.TripStatus) (*types.Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}

// ShareStore handles trip share persistence. UpsertShare is atomic on
// (trip_id, lower(email)): a re-share of the same address updates the
// existing row in place instead of inserting a second one, keeping its
// original invite code.
type ShareStore interface {
	UpsertShare(ctx context.Context, share *types.TripShare) (*types.TripShare, error)
	GetShare(ctx context.Context, id string) (*types.TripShare, error)
	GetShareByCode(ctx context.Context, code string) (*types.TripShare, error)
	ListSharesByTrip(ctx context.Context, tripID string) ([]*types.TripShare, error)
	UpdateSharePermission(ctx context.Context, id string, permission types.SharePermission) (*types.TripShare, error)
	AcceptShare(ctx context.Context, id, userID, email string) (*types.TripShare, error)
	DeclineShare(ctx context.Context, id string) (*types.TripShare, error)
	DeleteShare(ctx context.Context, id string) error
	ListSharedWithUser(ctx context.Context, userID, email string) ([]*types.SharedTrip, error)
	GetAcceptedShare(ctx context.Context, tripID, userID, email string) (*types.TripShare, error)
}

// AchievementStore handles the achievement catalog and per-user progress.
// UnlockAchievement only stamps earned_at when it is still NULL, so an
// unlock can never be repeated or overwritten.
type AchievementStore interface {
	ListCatalog(ctx context.Context, activeOnly bool) ([]*types.Achievement, error)
	UpsertProgress(ctx context.Context, userID, achievementID string, progress int) (*types.UserAchievement, error)
	UnlockAchievement(ctx context.Context, userID, achievementID string) (*types.UserAchievement, bool, error)
	ListUserAchievements(ctx context.Context, userID string) ([]*types.UserAchievement, error)
	ListUnseen(ctx context.Context, userID string) ([]*types.UserAchievement, error)
	MarkSeen(ctx context.Context, userID, userAchievementID string) error
	Leaderboard(ctx context.Context, limit int) ([]*types.LeaderboardEntry, error)
	UserStanding(ctx context.Context, userID string) (points int, rank int, err error)
	Metrics(ctx context.Context, userID string) (*types.AchievementMetrics, error)
}

// ActivityStore handles itinerary entries.
type ActivityStore interface {
	ListActivities(ctx context.Context, tripID string) ([]*types.Activity, error)
	GetActivity(ctx context.Context, id string) (*types.Activity, error)
	CreateActivity(ctx context.Context, activity *types.Activity) (*types.Activity, error)
	UpdateActivity(ctx context.Context, id string, update *types.ActivityUpdate) (*types.Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	ReorderActivities(ctx context.Context, tripID string, orderedIDs []string) error
}

// MemoryStore handles trip photos.
type MemoryStore interface {
	ListMemories(ctx context.Context, tripID string) ([]*types.Memory, error)
	GetMemory(ctx context.Context, id string) (*types.Memory, error)
	CreateMemory(ctx context.Context, memory *types.Memory) (*types.Memory, error)
	DeleteMemory(ctx context.Context, id string) error
}

// ExpenseStore handles spend entries.
type ExpenseStore interface {
	ListExpenses(ctx context.Context, tripID string) ([]*types.Expense, error)
	GetExpense(ctx context.Context, id string) (*types.Expense, error)
	CreateExpense(ctx context.Context, expense *types.Expense) (*types.Expense, error)
	UpdateExpense(ctx context.Context, id string, update *types.ExpenseUpdate) (*types.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ExpenseSummary(ctx context.Context, tripID string) (*types.ExpenseSummary, error)
}

// PackingStore handles packing-list items. BulkToggle and Reorder run in a
// single transaction, all or nothing.
type PackingStore interface {
	ListPackingItems(ctx context.Context, tripID string, category *types.PackingCategory, packed *bool) ([]*types.PackingItem, error)
	GetPackingItem(ctx context.Context, id string) (*types.PackingItem, error)
	CreatePackingItem(ctx context.Context, item *types.PackingItem) (*types.PackingItem, error)
	UpdatePackingItem(ctx context.Context, id string, update *types.PackingItemUpdate) (*types.PackingItem, error)
	TogglePackingItem(ctx context.Context, id string) (*types.PackingItem, error)
	BulkTogglePackingItems(ctx context.Context, tripID string, ids []string, packed bool) error
	ReorderPackingItems(ctx context.Context, tripID string, orderedIDs []string) error
	DeletePackingItem(ctx context.Context, id string) error
	PackingProgress(ctx context.Context, tripID string) (*types.PackingProgress, error)
}

// DocumentStore handles travel documents.
type DocumentStore interface {
	ListDocuments(ctx context.Context, tripID string) ([]*types.Document, error)
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	CreateDocument(ctx context.Context, doc *types.Document) (*types.Document, error)
	UpdateDocument(ctx context.Context, id string, update *types.DocumentUpdate) (*types.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// TemplateStore handles trip templates.
type TemplateStore interface {
	CreateTemplate(ctx context.Context, tpl *types.TripTemplate) (*types.TripTemplate, error)
	GetTemplate(ctx context.Context, id string) (*types.TripTemplate, error)
	ListTemplatesByUser(ctx context.Context, userID string) ([]*types.TripTemplate, error)
	ListPublicTemplates(ctx context.Context, category string, limit, offset int) ([]*types.TripTemplate, int, error)
	ListTemplateCategories(ctx context.Context) ([]string, error)
	UpdateTemplate(ctx context.Context, id string, update *types.TemplateUpdate) (*types.TripTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	IncrementUseCount(ctx context.Context, id string) error
}

// StatsStore runs the read-only aggregate queries for the statistics
// component.
type StatsStore interface {
	OverallStatistics(ctx context.Context, userID string) (*types.OverallStatistics, error)
	YearInReview(ctx context.Context, userID string, year int) (*types.YearInReview, error)
	Timeline(ctx context.Context, userID string, limit, offset int) (*types.Timeline, error)
}

// WeatherCacheStore persists fetched weather behind the Redis cache so a
// cold cache does not always hit the provider.
type WeatherCacheStore interface {
	GetWeather(ctx context.Context, lat, lon float64) (*types.CurrentWeather, error)
	SaveWeather(ctx context.Context, weather *types.CurrentWeather, ttlSeconds int) error
}

// RateStore persists exchange rates behind the Redis cache.
type RateStore interface {
	GetRates(ctx context.Context, base string) (*types.ExchangeRates, error)
	SaveRates(ctx context.Context, rates *types.ExchangeRates, ttlSeconds int) error
}
