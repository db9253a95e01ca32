package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"halaqahku_backend/internals/configs"
	lifecycle "halaqahku_backend/internals/features/sessions/lifecycle/model"
	lsvc "halaqahku_backend/internals/features/sessions/lifecycle/service"
	"halaqahku_backend/internals/features/sessions/settings/model"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultCacheTTL = 5 * time.Minute

// Source membaca baris override; (nil, nil) = tidak ada override.
type Source interface {
	Find(ctx context.Context, academyID uuid.UUID, kind string) (*model.SessionSettingModel, error)
}

type GormSource struct {
	DB *gorm.DB
}

func (s GormSource) Find(ctx context.Context, academyID uuid.UUID, kind string) (*model.SessionSettingModel, error) {
	var row model.SessionSettingModel
	err := s.DB.WithContext(ctx).
		Where("session_setting_academy_id = ? AND session_setting_kind = ?", academyID, kind).
		Limit(1).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List: semua override milik academy (untuk halaman admin).
func (s GormSource) List(ctx context.Context, academyID uuid.UUID) ([]model.SessionSettingModel, error) {
	var rows []model.SessionSettingModel
	err := s.DB.WithContext(ctx).
		Where("session_setting_academy_id = ?", academyID).
		Order("session_setting_kind ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert per (academy, kind); kolom override selalu ditimpa (NULL = kembali ke default).
func (s GormSource) Upsert(ctx context.Context, row *model.SessionSettingModel) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_setting_academy_id"}, {Name: "session_setting_kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"session_setting_preparation_minutes",
			"session_setting_early_join_minutes",
			"session_setting_grace_period_minutes",
			"session_setting_buffer_minutes",
			"session_setting_max_future_hours",
			"session_setting_max_past_hours",
			"session_setting_max_future_hours_ongoing",
			"session_setting_updated_at",
		}),
	}).Create(row).Error
}

type cacheEntry struct {
	th      lsvc.Thresholds
	expires time.Time
}

// Provider: default instalasi ← override academy ("all") ← override academy+kind.
type Provider struct {
	source   Source
	defaults configs.SessionDefaults
	clock    quartz.Clock
	ttl      time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

func NewProvider(source Source, defaults configs.SessionDefaults, clock quartz.Clock) *Provider {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Provider{
		source:   source,
		defaults: defaults,
		clock:    clock,
		ttl:      defaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}
}

var _ lsvc.SettingsProvider = (*Provider)(nil)

func (p *Provider) SessionKind(s lifecycle.Session) lifecycle.SessionKind { return s.Kind() }

func (p *Provider) IsIndividual(s lifecycle.Session) bool {
	return p.SessionKind(s) == lifecycle.SessionKindIndividual
}

func (p *Provider) Thresholds(ctx context.Context, s lifecycle.Session) (lsvc.Thresholds, error) {
	academyID := s.AcademyID()
	kind := string(p.SessionKind(s))
	key := academyID.String() + ":" + kind
	now := p.clock.Now()

	p.mu.RLock()
	e, ok := p.cache[key]
	p.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.th, nil
	}

	th := fromDefaults(p.defaults)
	if p.source != nil && academyID != uuid.Nil {
		for _, k := range []string{model.KindAll, kind} {
			row, err := p.source.Find(ctx, academyID, k)
			if err != nil {
				return lsvc.Thresholds{}, fmt.Errorf("baca session_settings academy=%s kind=%s: %w", academyID, k, err)
			}
			overlay(&th, row)
		}
	}

	p.mu.Lock()
	p.cache[key] = cacheEntry{th: th, expires: now.Add(p.ttl)}
	p.mu.Unlock()
	return th, nil
}

// ClearCache dipanggil setelah admin mengubah session_settings.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	p.cache = make(map[string]cacheEntry)
	p.mu.Unlock()
}

func fromDefaults(d configs.SessionDefaults) lsvc.Thresholds {
	return lsvc.Thresholds{
		PreparationMinutes:    d.PreparationMinutes,
		MaxFutureHours:        d.MaxFutureHours,
		MaxPastHours:          d.MaxPastHours,
		EarlyJoinMinutes:      d.EarlyJoinMinutes,
		MaxFutureHoursOngoing: d.MaxFutureHoursOngoing,
		GracePeriodMinutes:    d.GracePeriodMinutes,
		BufferMinutes:         d.BufferMinutes,
	}
}

func overlay(th *lsvc.Thresholds, row *model.SessionSettingModel) {
	if row == nil {
		return
	}
	set := func(dst *int, v *int) {
		if v != nil && *v >= 0 {
			*dst = *v
		}
	}
	set(&th.PreparationMinutes, row.SessionSettingPreparationMinutes)
	set(&th.EarlyJoinMinutes, row.SessionSettingEarlyJoinMinutes)
	set(&th.GracePeriodMinutes, row.SessionSettingGracePeriodMinutes)
	set(&th.BufferMinutes, row.SessionSettingBufferMinutes)
	set(&th.MaxFutureHours, row.SessionSettingMaxFutureHours)
	set(&th.MaxPastHours, row.SessionSettingMaxPastHours)
	set(&th.MaxFutureHoursOngoing, row.SessionSettingMaxFutureHoursOngoing)
}
