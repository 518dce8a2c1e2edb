package registry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/inscripciones/internal/attendee"
	"github.com/roach88/inscripciones/internal/export"
	"github.com/roach88/inscripciones/internal/validate"
)

// Store is the persistence port the service drives. *store.Store implements it.
type Store interface {
	Insert(ctx context.Context, a attendee.Attendee) (attendee.Attendee, error)
	ListAll(ctx context.Context) ([]attendee.Attendee, error)
	Search(ctx context.Context, term string) ([]attendee.Attendee, error)
	SortBy(ctx context.Context, field attendee.SortField) ([]attendee.Attendee, error)
	FindByNationalID(ctx context.Context, nationalID string) (attendee.Attendee, error)
	CountAll(ctx context.Context) (int, error)
	CountByInstitution(ctx context.Context) (map[string]int, error)
}

// ListingObserver receives the refreshed listing after a successful registration.
type ListingObserver func(ctx context.Context, listing []attendee.Attendee)

// Service orchestrates registration and queries.
type Service struct {
	store    Store
	tokens   TokenGenerator
	logger   *slog.Logger
	observer ListingObserver
}

// Option configures a Service.
type Option func(*Service)

// WithTokenGenerator overrides the request token generator (for testing).
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Service) {
		s.tokens = g
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithListingObserver registers a callback that is handed the re-fetched
// listing every time a registration succeeds.
func WithListingObserver(fn ListingObserver) Option {
	return func(s *Service) {
		s.observer = fn
	}
}

// New creates a Service over st.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		tokens: UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) requestLogger(op string) *slog.Logger {
	return s.logger.With("request", s.tokens.Generate(), "op", op)
}

// Register validates p and stores it. On success it returns the new
// attendee id and, when an observer is set, re-fetches the listing for it.
//
// Errors carry one of MissingRequiredField, InvalidEmailFormat,
// InvalidNumericField, DuplicateKey or StorageUnavailable; the store is
// unchanged on any error.
func (s *Service) Register(ctx context.Context, p attendee.Payload) (int64, error) {
	log := s.requestLogger("register")

	clean, err := validate.Payload(p)
	if err != nil {
		log.Info("registration rejected", "kind", attendee.KindOf(err), "field", attendee.FieldOf(err))
		return 0, fmt.Errorf("register: %w", err)
	}

	saved, err := s.store.Insert(ctx, clean.Attendee())
	if err != nil {
		log.Warn("registration failed", "kind", attendee.KindOf(err), "error", err)
		return 0, fmt.Errorf("register: %w", err)
	}
	log.Info("attendee registered", "id", saved.ID, "registered_on", saved.RegisteredOn())

	if s.observer != nil {
		listing, err := s.store.ListAll(ctx)
		if err != nil {
			// The registration itself is committed; only the refresh failed.
			log.Warn("listing refresh failed", "error", err)
		} else {
			s.observer(ctx, listing)
		}
	}

	return saved.ID, nil
}

// List returns every attendee in registration order.
func (s *Service) List(ctx context.Context) ([]attendee.Attendee, error) {
	log := s.requestLogger("list")
	list, err := s.store.ListAll(ctx)
	if err != nil {
		log.Warn("list failed", "error", err)
		return nil, fmt.Errorf("list: %w", err)
	}
	log.Debug("listed attendees", "count", len(list))
	return list, nil
}

// Search returns attendees whose first name, last name, national ID or email
// contains term (case-sensitive). An empty term returns everyone.
func (s *Service) Search(ctx context.Context, term string) ([]attendee.Attendee, error) {
	log := s.requestLogger("search")
	term = validate.SearchTerm(term)
	list, err := s.store.Search(ctx, term)
	if err != nil {
		log.Warn("search failed", "error", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	log.Debug("searched attendees", "term", term, "count", len(list))
	return list, nil
}

// SortBy returns every attendee ordered by field.
func (s *Service) SortBy(ctx context.Context, field attendee.SortField) ([]attendee.Attendee, error) {
	log := s.requestLogger("sort")
	if !field.Valid() {
		return nil, fmt.Errorf("sort: unsupported field %v", field)
	}
	list, err := s.store.SortBy(ctx, field)
	if err != nil {
		log.Warn("sort failed", "field", field, "error", err)
		return nil, fmt.Errorf("sort: %w", err)
	}
	log.Debug("sorted attendees", "field", field, "count", len(list))
	return list, nil
}

// TotalCount returns the number of registered attendees.
func (s *Service) TotalCount(ctx context.Context) (int, error) {
	n, err := s.store.CountAll(ctx)
	if err != nil {
		s.requestLogger("total").Warn("count failed", "error", err)
		return 0, fmt.Errorf("total count: %w", err)
	}
	return n, nil
}

// CountByInstitution returns attendees per institution; attendees without one
// are counted under attendee.NoInstitution.
func (s *Service) CountByInstitution(ctx context.Context) (map[string]int, error) {
	counts, err := s.store.CountByInstitution(ctx)
	if err != nil {
		s.requestLogger("institutions").Warn("count by institution failed", "error", err)
		return nil, fmt.Errorf("count by institution: %w", err)
	}
	return counts, nil
}

// FindByNationalID looks up a single attendee. The id is trimmed first.
func (s *Service) FindByNationalID(ctx context.Context, nationalID string) (attendee.Attendee, error) {
	nationalID = validate.Normalize(attendee.Payload{NationalID: nationalID}).NationalID
	if nationalID == "" {
		return attendee.Attendee{}, attendee.NewError(attendee.KindMissingRequiredField, attendee.FieldNationalID)
	}
	a, err := s.store.FindByNationalID(ctx, nationalID)
	if err != nil {
		return attendee.Attendee{}, fmt.Errorf("lookup: %w", err)
	}
	return a, nil
}

// Export writes the full listing to w and returns how many rows were written.
func (s *Service) Export(ctx context.Context, w io.Writer, format export.Format) (int, error) {
	log := s.requestLogger("export")
	list, err := s.store.ListAll(ctx)
	if err != nil {
		log.Warn("export failed", "error", err)
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := export.Write(w, format, list); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	log.Info("exported attendees", "format", format, "count", len(list))
	return len(list), nil
}
