package services

import (
	"fmt"
	"strings"

	"darna/internal/models"
	"darna/internal/pricing"
	"darna/internal/repositories"
)

const (
	SecurityByDay  = "day"
	SecurityHourly = "hourly"
)

// OptionSelection is a chosen sub-option and how many of it.
type OptionSelection struct {
	OptionID uint        `json:"option_id"`
	Quantity interface{} `json:"quantity"`
}

// QuoteRequest carries the raw form inputs of a reservation. Numeric fields accept
// numbers or numeric strings; anything else counts as zero.
type QuoteRequest struct {
	Kind           models.ReservationKind `json:"kind"`
	ServiceTypeID  uint                   `json:"service_type_id"`
	SecurityRoleID uint                   `json:"security_role_id"`
	Count          interface{}            `json:"count"`
	Pieces         []pricing.Piece        `json:"pieces"`
	Options        []OptionSelection      `json:"options"`
	SecurityType   string                 `json:"security_type"`
	Days           interface{}            `json:"days"`
	Hours          interface{}            `json:"hours"`
	StartTime      string                 `json:"start_time"`
	EndTime        string                 `json:"end_time"`
}

// QuoteLine is one priced component of a quote.
type QuoteLine struct {
	Label     string  `json:"label"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  float64 `json:"quantity"`
	Amount    float64 `json:"amount"`
}

// Quote is the server-side price of a reservation. Valid is false while the inputs
// cannot produce a bookable reservation.
type Quote struct {
	Kind      models.ReservationKind `json:"kind"`
	Unit      models.PricingUnit     `json:"unit"`
	UnitPrice float64                `json:"unit_price"`
	Count     int64                  `json:"count,omitempty"`
	Area      float64                `json:"area_m2,omitempty"`
	Hours     int64                  `json:"hours,omitempty"`
	Lines     []QuoteLine            `json:"lines,omitempty"`
	Total     float64                `json:"total"`
	Valid     bool                   `json:"valid"`
	Problems  []string               `json:"problems,omitempty"`
}

// QuoteService prices reservations from catalog data.
type QuoteService struct {
	repo repositories.ServiceTypeRepository
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(repo repositories.ServiceTypeRepository) *QuoteService {
	return &QuoteService{repo: repo}
}

// Quote prices req. Only a missing service type or role, or a store failure, is an error;
// incomplete inputs give an invalid quote.
func (s *QuoteService) Quote(req QuoteRequest) (*Quote, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownReservationKind, req.Kind)
	}
	if req.Kind == models.KindSecurity {
		return s.securityQuote(req)
	}

	if req.ServiceTypeID == 0 {
		return invalid(req.Kind, "service_type_id is required"), nil
	}
	st, err := s.repo.GetByID(req.ServiceTypeID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		return nil, err
	}

	price := pricing.FromFloat(st.Price)
	q := &Quote{Kind: req.Kind, Unit: st.PricingUnit, UnitPrice: pricing.Float(price)}

	switch st.PricingUnit {
	case models.UnitPiece, models.UnitDay:
		q.Count = pricing.ParseCount(req.Count)
		total := pricing.PerUnit(price, q.Count)
		q.Lines = []QuoteLine{{Label: st.NameFr, UnitPrice: q.UnitPrice, Quantity: float64(q.Count), Amount: pricing.Float(total)}}
		q.Total = pricing.Float(total)
		if q.Count < 1 {
			q.Problems = append(q.Problems, "count must be at least 1")
		}

	case models.UnitSquare:
		for i, p := range req.Pieces {
			area := pricing.Area(p.Length, p.Width)
			q.Lines = append(q.Lines, QuoteLine{
				Label:     fmt.Sprintf("piece %d", i+1),
				UnitPrice: q.UnitPrice,
				Quantity:  area.Round(4).InexactFloat64(),
				Amount:    pricing.Float(pricing.PieceCost(price, p)),
			})
			if !p.Valid() {
				q.Problems = append(q.Problems, fmt.Sprintf("piece %d needs a positive length and width", i+1))
			}
		}
		if len(req.Pieces) == 0 {
			q.Problems = append(q.Problems, "at least one piece is required")
		}
		q.Area = pricing.TotalArea(req.Pieces).Round(4).InexactFloat64()
		q.Total = pricing.Float(pricing.AreaTotal(price, req.Pieces))
		if !pricing.PiecesValid(req.Pieces) && len(q.Problems) == 0 {
			q.Problems = append(q.Problems, "invalid pieces")
		}

	case models.UnitOption:
		byID := make(map[uint]models.ServiceOption, len(st.Options))
		for _, o := range st.Options {
			byID[o.ID] = o
		}
		var lines []pricing.OptionLine
		var selected bool
		for _, sel := range req.Options {
			opt, ok := byID[sel.OptionID]
			if !ok {
				q.Problems = append(q.Problems, fmt.Sprintf("unknown option %d", sel.OptionID))
				continue
			}
			n := pricing.ParseCount(sel.Quantity)
			if n == 0 {
				continue
			}
			selected = true
			optPrice := pricing.FromFloat(opt.Price)
			lines = append(lines, pricing.OptionLine{Price: optPrice, Quantity: n})
			q.Lines = append(q.Lines, QuoteLine{
				Label:     opt.NameFr,
				UnitPrice: pricing.Float(optPrice),
				Quantity:  float64(n),
				Amount:    pricing.Float(pricing.PerUnit(optPrice, n)),
			})
		}
		q.Total = pricing.Float(pricing.Options(lines))
		if !selected {
			q.Problems = append(q.Problems, "select at least one option")
		}

	default:
		q.Unit = models.UnitFlat
		q.Total = q.UnitPrice
		q.Lines = []QuoteLine{{Label: st.NameFr, UnitPrice: q.UnitPrice, Quantity: 1, Amount: q.UnitPrice}}
	}

	q.Valid = len(q.Problems) == 0
	return q, nil
}

func (s *QuoteService) securityQuote(req QuoteRequest) (*Quote, error) {
	if req.SecurityRoleID == 0 {
		return invalid(req.Kind, "security_role_id is required"), nil
	}
	role, err := s.repo.GetSecurityRole(req.SecurityRoleID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		return nil, err
	}

	q := &Quote{Kind: req.Kind}
	switch strings.ToLower(strings.TrimSpace(req.SecurityType)) {
	case "", SecurityByDay:
		rate := pricing.FromFloat(role.DayRate)
		days := pricing.ParseCount(req.Days)
		if days < 1 {
			days = 1
		}
		total := pricing.SecurityDay(rate, days)
		q.Unit = models.UnitDay
		q.UnitPrice = pricing.Float(rate)
		q.Count = days
		q.Total = pricing.Float(total)
		q.Lines = []QuoteLine{{Label: role.NameFr, UnitPrice: q.UnitPrice, Quantity: float64(days), Amount: q.Total}}

	case SecurityHourly:
		rate := pricing.FromFloat(role.HourlyRate)
		hours := pricing.ParseAmount(req.Hours)
		if hours.IsZero() {
			hours = pricing.HoursBetween(req.StartTime, req.EndTime)
		}
		q.Unit = models.UnitHour
		q.UnitPrice = pricing.Float(rate)
		q.Hours = pricing.CeilHours(hours)
		q.Total = pricing.Float(pricing.SecurityHourly(rate, hours.InexactFloat64()))
		q.Lines = []QuoteLine{{Label: role.NameFr, UnitPrice: q.UnitPrice, Quantity: float64(q.Hours), Amount: q.Total}}
		if q.Hours < 1 {
			q.Problems = append(q.Problems, "hours or a start and end time are required")
		}

	default:
		q.Problems = append(q.Problems, fmt.Sprintf("unknown security type '%s'", req.SecurityType))
	}

	q.Valid = len(q.Problems) == 0
	return q, nil
}

func invalid(kind models.ReservationKind, problem string) *Quote {
	return &Quote{Kind: kind, Problems: []string{problem}}
}
