package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/models"
)

// HistoryService appends immutable audit records. Logging is best-effort
// observability: a failed insert is reported to the operational log and
// swallowed, it never aborts the business operation that triggered it.
type HistoryService struct {
	db    *gorm.DB
	log   *zap.Logger
	actor *string
}

func NewHistoryService(db *gorm.DB, log *zap.Logger) *HistoryService {
	return &HistoryService{db: db, log: log}
}

// WithActor returns a shallow copy attributing subsequent records to the
// given profile. Used per request so concurrent sessions never share state.
func (s *HistoryService) WithActor(actor *string) *HistoryService {
	clone := *s
	clone.actor = actor
	return &clone
}

// Log appends one history record. entityID may be empty for system-level
// events. details accepts a plain string (wrapped as {"message": ...}) or a
// structured map stored as-is. performedBy overrides the session identity
// when non-nil.
func (s *HistoryService) Log(entityType models.EntityType, entityID string, action string, details interface{}, performedBy *string) {
	var detailMap models.JSONMap
	switch d := details.(type) {
	case nil:
		detailMap = models.JSONMap{}
	case string:
		detailMap = models.JSONMap{"message": d}
	case models.JSONMap:
		detailMap = d
	case map[string]interface{}:
		detailMap = models.JSONMap(d)
	default:
		detailMap = models.JSONMap{"message": "detalle no serializable"}
	}

	var entityIDPtr *string
	if entityID != "" {
		entityIDPtr = &entityID
	}

	actor := performedBy
	if actor == nil {
		actor = s.actor
	}

	entry := models.HistoryLog{
		Timestamp:   time.Now(),
		EntityType:  entityType,
		EntityID:    entityIDPtr,
		Action:      action,
		Details:     detailMap,
		PerformedBy: actor,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		s.log.Error("no se pudo registrar en el historial",
			zap.String("entity_type", string(entityType)),
			zap.String("entity_id", entityID),
			zap.String("action", action),
			zap.Error(err))
	}
}

// FetchAll returns the full trail, newest first.
func (s *HistoryService) FetchAll() ([]models.HistoryLog, error) {
	var logs []models.HistoryLog
	if err := s.db.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FetchByEntity returns the trail of a single entity, newest first.
func (s *HistoryService) FetchByEntity(entityType models.EntityType, entityID string) ([]models.HistoryLog, error) {
	var logs []models.HistoryLog
	if err := s.db.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
