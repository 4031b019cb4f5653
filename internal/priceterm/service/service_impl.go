package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/priceterm/internal/clock"
	"github.com/smallbiznis/priceterm/internal/observability/metrics"
	"github.com/smallbiznis/priceterm/internal/orgcontext"
	pricetermdomain "github.com/smallbiznis/priceterm/internal/priceterm/domain"
	"github.com/smallbiznis/priceterm/internal/priceterm/format"
	"github.com/smallbiznis/priceterm/internal/priceterm/validation"
	"github.com/smallbiznis/priceterm/internal/recurrence"
	"github.com/smallbiznis/priceterm/internal/tier"
	"github.com/smallbiznis/priceterm/pkg/db"
	"github.com/smallbiznis/priceterm/pkg/rls"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      pricetermdomain.Repository
	Validator *validation.Validator
	Presenter *format.Presenter
	Notifier  pricetermdomain.Notifier
	Metrics   *metrics.Metrics `optional:"true"`
	Clock     clock.Clock      `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      pricetermdomain.Repository
	validator *validation.Validator
	presenter *format.Presenter
	notifier  pricetermdomain.Notifier
	metrics   *metrics.Metrics
	clock     clock.Clock
}

// NewService returns the service. Besides pricetermdomain.Service it exposes
// the tier aggregate and the version history.
func NewService(p Params) *Service {
	clk := p.Clock
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("priceterm.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		validator: p.Validator,
		presenter: p.Presenter,
		notifier:  p.Notifier,
		metrics:   p.Metrics,
		clock:     clk,
	}
}

func (s *Service) Create(ctx context.Context, req pricetermdomain.TermRequest) (*pricetermdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	unit, err := normalizeUnit(req.Unit)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	term := &pricetermdomain.PriceTerm{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		UnitID:    unit.ID,
		UnitKind:  unit.Kind,
		ProductID: unit.ProductID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyRequest(term, req)

	if err := s.validate(ctx, term, unit); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, orgID.Int64()); err != nil {
			return err
		}
		if err := s.ensureCadenceFree(ctx, tx, term); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, tx, term); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return pricetermdomain.ErrDuplicateCadence
			}
			return err
		}
		return s.writeVersion(ctx, tx, term, pricetermdomain.VersionCreate)
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, term, pricetermdomain.VersionCreate)
	return s.toResponse(term, unit.DefaultCadence), nil
}

func (s *Service) Update(ctx context.Context, id string, req pricetermdomain.TermRequest) (*pricetermdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	termID, err := parseID(id)
	if err != nil {
		return nil, pricetermdomain.ErrInvalidID
	}

	term, err := s.repo.FindActive(ctx, s.db, orgID, termID)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, pricetermdomain.ErrNotFound
	}

	// The unit carries the recurring billing flag, so it must come with every edit.
	unit := req.Unit
	if unit.ID == 0 || unit.ID != term.UnitID {
		return nil, pricetermdomain.ErrInvalidUnit
	}
	if unit.Kind == "" {
		unit.Kind = term.UnitKind
	}
	if unit.ProductID == 0 {
		unit.ProductID = term.ProductID
	}
	unit, err = normalizeUnit(unit)
	if err != nil {
		return nil, err
	}

	applyRequest(term, req)
	term.UpdatedAt = s.clock.Now()

	if err := s.validate(ctx, term, unit); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, orgID.Int64()); err != nil {
			return err
		}
		if err := s.ensureCadenceFree(ctx, tx, term); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, tx, term); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return pricetermdomain.ErrDuplicateCadence
			}
			return err
		}
		return s.writeVersion(ctx, tx, term, pricetermdomain.VersionUpdate)
	})
	if err != nil {
		return nil, err
	}

	s.committed(ctx, term, pricetermdomain.VersionUpdate)
	return s.toResponse(term, unit.DefaultCadence), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return pricetermdomain.ErrInvalidOrganization
	}

	termID, err := parseID(id)
	if err != nil {
		return pricetermdomain.ErrInvalidID
	}

	term, err := s.repo.FindActive(ctx, s.db, orgID, termID)
	if err != nil {
		return err
	}
	if term == nil {
		return pricetermdomain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := rls.WithTenant(tx, orgID.Int64()); err != nil {
			return err
		}
		if err := s.repo.SoftDelete(ctx, tx, orgID, termID); err != nil {
			return err
		}
		return s.writeVersion(ctx, tx, term, pricetermdomain.VersionDestroy)
	})
	if err != nil {
		return err
	}

	s.committed(ctx, term, pricetermdomain.VersionDestroy)
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*pricetermdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	termID, err := parseID(id)
	if err != nil {
		return nil, pricetermdomain.ErrInvalidID
	}

	term, err := s.repo.FindActive(ctx, s.db, orgID, termID)
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, pricetermdomain.ErrNotFound
	}

	return s.toResponse(term, nil), nil
}

func (s *Service) List(ctx context.Context, req pricetermdomain.ListRequest) ([]pricetermdomain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	filter := pricetermdomain.ListFilter{
		FixedDuration: req.FixedDuration,
		Rental:        req.Rental,
	}
	if strings.TrimSpace(req.UnitID) != "" {
		unitID, err := parseID(req.UnitID)
		if err != nil {
			return nil, pricetermdomain.ErrInvalidUnit
		}
		filter.UnitID = unitID
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]pricetermdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *s.toResponse(&items[i], nil))
	}
	return resp, nil
}

// Aggregate builds the per-cadence view over every active term of one unit.
func (s *Service) Aggregate(ctx context.Context, unitID string) (*tier.Aggregator, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	id, err := parseID(unitID)
	if err != nil || id == 0 {
		return nil, pricetermdomain.ErrInvalidUnit
	}

	terms, err := s.repo.List(ctx, s.db, orgID, pricetermdomain.ListFilter{UnitID: id})
	if err != nil {
		return nil, err
	}
	return tier.New(s.presenter, terms)
}

// Versions returns the audit trail of a term, including terms that were deleted.
func (s *Service) Versions(ctx context.Context, id string) ([]pricetermdomain.PriceTermVersion, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, pricetermdomain.ErrInvalidOrganization
	}

	termID, err := parseID(id)
	if err != nil {
		return nil, pricetermdomain.ErrInvalidID
	}

	return s.repo.ListVersions(ctx, s.db, orgID, termID)
}

func (s *Service) validate(ctx context.Context, term *pricetermdomain.PriceTerm, unit pricetermdomain.SellableUnit) error {
	failures := s.validator.Validate(term, pricetermdomain.ContextFor(unit))
	if len(failures) == 0 {
		return nil
	}

	seen := make(map[validation.Kind]struct{}, len(failures))
	for _, f := range failures {
		if _, ok := seen[f.Kind]; ok {
			continue
		}
		seen[f.Kind] = struct{}{}
		s.metrics.RecordValidationFailure(ctx, string(f.Kind), string(unit.Kind))
	}

	s.log.Debug("price term rejected",
		zap.String("unit_id", unit.ID.String()),
		zap.String("unit_kind", string(unit.Kind)),
		zap.String("failures", failures.Error()),
	)
	return failures
}

func (s *Service) ensureCadenceFree(ctx context.Context, tx *gorm.DB, term *pricetermdomain.PriceTerm) error {
	existing, err := s.repo.FindActiveByCadence(ctx, tx, term.OrgID, term.UnitID, term.Cadence)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != term.ID {
		return pricetermdomain.ErrDuplicateCadence
	}
	return nil
}

func (s *Service) writeVersion(ctx context.Context, tx *gorm.DB, term *pricetermdomain.PriceTerm, event pricetermdomain.VersionEvent) error {
	snapshot, err := json.Marshal(term)
	if err != nil {
		return err
	}
	return s.repo.InsertVersion(ctx, tx, &pricetermdomain.PriceTermVersion{
		ID:        s.genID.Generate(),
		OrgID:     term.OrgID,
		TermID:    term.ID,
		Event:     event,
		Object:    datatypes.JSON(snapshot),
		CreatedAt: s.clock.Now(),
	})
}

// committed runs after the transaction: one notification per change, failures logged only.
func (s *Service) committed(ctx context.Context, term *pricetermdomain.PriceTerm, event pricetermdomain.VersionEvent) {
	s.metrics.RecordCommit(ctx, string(event), string(term.UnitKind))

	if s.notifier == nil {
		return
	}
	err := s.notifier.PriceTermCommitted(ctx, pricetermdomain.CommitEvent{
		OrgID:     term.OrgID,
		TermID:    term.ID,
		UnitID:    term.UnitID,
		ProductID: term.ProductID,
		Event:     event,
	})
	if err != nil {
		s.metrics.RecordNotifyFailure(ctx, string(event))
		s.log.Warn("price term commit notification failed",
			zap.String("term_id", term.ID.String()),
			zap.String("product_id", term.ProductID.String()),
			zap.String("event", string(event)),
			zap.Error(err),
		)
	}
}

// toResponse marks the default recurrence only when the caller knows the unit's default cadence.
func (s *Service) toResponse(t *pricetermdomain.PriceTerm, defaultCadence *recurrence.Cadence) *pricetermdomain.Response {
	pctx := pricetermdomain.ContextFor(pricetermdomain.SellableUnit{Kind: t.UnitKind})

	var cadence *string
	if t.Cadence != nil {
		value := t.Cadence.String()
		cadence = &value
	}

	return &pricetermdomain.Response{
		ID:                              t.ID.String(),
		OrganizationID:                  t.OrgID.String(),
		UnitID:                          t.UnitID.String(),
		UnitKind:                        string(t.UnitKind),
		ProductID:                       t.ProductID.String(),
		AmountCents:                     t.AmountCents,
		Currency:                        t.Currency,
		SuggestedAmountCents:            t.SuggestedAmountCents,
		Cadence:                         cadence,
		FixedDurationMonths:             t.FixedDurationMonths,
		DurationDisplayName:             t.DurationDisplayName,
		DurationDisplay:                 s.presenter.DurationDisplay(t),
		FormattedDurationWithRecurrence: s.presenter.FormattedDurationWithRecurrence(t),
		RecurrenceFormatted:             s.presenter.RecurrenceFormatted(t),
		FormattedPrice:                  s.presenter.FormattedPriceWithDuration(t, pctx),
		IsRental:                        t.IsRental,
		IsDefaultRecurrence:             t.IsDefaultRecurrence(defaultCadence),
		CreatedAt:                       t.CreatedAt,
		UpdatedAt:                       t.UpdatedAt,
	}
}

func normalizeUnit(unit pricetermdomain.SellableUnit) (pricetermdomain.SellableUnit, error) {
	if unit.ID == 0 {
		return unit, pricetermdomain.ErrInvalidUnit
	}
	switch unit.Kind {
	case pricetermdomain.UnitProduct:
		if unit.ProductID == 0 {
			unit.ProductID = unit.ID
		}
	case pricetermdomain.UnitTier:
		if unit.ProductID == 0 {
			return unit, pricetermdomain.ErrInvalidUnit
		}
	default:
		return unit, pricetermdomain.ErrInvalidUnit
	}
	return unit, nil
}

func applyRequest(term *pricetermdomain.PriceTerm, req pricetermdomain.TermRequest) {
	term.AmountCents = req.AmountCents
	term.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	term.SuggestedAmountCents = req.SuggestedAmountCents
	term.Cadence = parseCadence(req.Cadence)
	term.FixedDurationMonths = req.FixedDurationMonths
	term.DurationDisplayName = trimmedOrNil(req.DurationDisplayName)
	term.IsRental = req.IsRental
}

// parseCadence keeps unknown values so the validator can report them.
func parseCadence(raw string) *recurrence.Cadence {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return nil
	}
	return recurrence.Cadence(value).Ptr()
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("zero id")
	}
	return id, nil
}
