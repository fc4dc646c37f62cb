package handler

import (
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type createMovementRequest struct {
	Type        string     `json:"type" validate:"required,oneof=income expense"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"omitempty,oneof=$ S/ € £ R$"`
	Category    string     `json:"category" validate:"omitempty,max=50"`
	Description string     `json:"description" validate:"omitempty,max=200"`
	Date        *time.Time `json:"date"`
}

// updateMovementRequest is the explicit allow-list of mutable movement fields.
// Nil fields are left untouched.
type updateMovementRequest struct {
	Type        *string    `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      *float64   `json:"amount" validate:"omitempty,gt=0"`
	Currency    *string    `json:"currency" validate:"omitempty,oneof=$ S/ € £ R$"`
	Category    *string    `json:"category" validate:"omitempty,max=50"`
	Description *string    `json:"description" validate:"omitempty,max=200"`
	Date        *time.Time `json:"date"`
}

func (r *updateMovementRequest) patch() domain.MovementPatch {
	p := domain.MovementPatch{
		Amount:      r.Amount,
		Currency:    r.Currency,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date,
	}
	if r.Type != nil {
		t := domain.MovementType(*r.Type)
		p.Type = &t
	}
	return p
}

type createAlertRequest struct {
	Threshold float64 `json:"threshold" validate:"required,gt=0"`
	Frequency string  `json:"frequency" validate:"required,oneof=daily weekly monthly"`
}

// updateAlertRequest is the explicit allow-list of mutable alert fields.
type updateAlertRequest struct {
	Threshold *float64 `json:"threshold" validate:"omitempty,gt=0"`
	Frequency *string  `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	Active    *bool    `json:"active"`
}

func (r *updateAlertRequest) patch() domain.AlertPatch {
	p := domain.AlertPatch{
		Threshold: r.Threshold,
		Active:    r.Active,
	}
	if r.Frequency != nil {
		f := domain.Frequency(*r.Frequency)
		p.Frequency = &f
	}
	return p
}

// UserDTO is the JSON representation of an authenticated user. It exposes the
// same fields as a Principal: no password hash, no refresh token.
type UserDTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	OAuthProvider string `json:"oauthProvider,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

func toUserDTO(p *domain.Principal) UserDTO {
	return UserDTO{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		OAuthProvider: p.OAuthProvider,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

// TokenDTO is the JSON representation of issued credentials.
type TokenDTO struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// MovementDTO is the JSON representation of a movement.
type MovementDTO struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Date        string  `json:"date"`
}

func toMovementDTO(m *domain.Movement) MovementDTO {
	return MovementDTO{
		ID:          m.ID,
		Type:        string(m.Type),
		Amount:      m.Amount,
		Currency:    m.Currency,
		Category:    m.Category,
		Description: m.Description,
		Date:        m.Date.Format(time.RFC3339),
	}
}

func toMovementDTOs(movements []domain.Movement) []MovementDTO {
	dtos := make([]MovementDTO, len(movements))
	for i := range movements {
		dtos[i] = toMovementDTO(&movements[i])
	}
	return dtos
}

// AlertDTO is the JSON representation of an alert.
type AlertDTO struct {
	ID        int64   `json:"id"`
	Threshold float64 `json:"threshold"`
	Frequency string  `json:"frequency"`
	LastSent  *string `json:"lastSent"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"createdAt"`
}

func toAlertDTO(a *domain.Alert) AlertDTO {
	dto := AlertDTO{
		ID:        a.ID,
		Threshold: a.Threshold,
		Frequency: string(a.Frequency),
		Active:    a.Active,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
	if a.LastSent != nil {
		s := a.LastSent.Format(time.RFC3339)
		dto.LastSent = &s
	}
	return dto
}

func toAlertDTOs(alerts []domain.Alert) []AlertDTO {
	dtos := make([]AlertDTO, len(alerts))
	for i := range alerts {
		dtos[i] = toAlertDTO(&alerts[i])
	}
	return dtos
}

// PeriodDTO is the JSON representation of an evaluation window.
type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// TriggeredAlertDTO is one triggered alert in a check response.
type TriggeredAlertDTO struct {
	Alert         AlertDTO  `json:"alert"`
	Triggered     bool      `json:"triggered"`
	TotalExpenses float64   `json:"totalExpenses"`
	Period        PeriodDTO `json:"period"`
}

// AlertCheckDTO is the JSON representation of an alert check pass.
type AlertCheckDTO struct {
	AlertsChecked   int                 `json:"alertsChecked"`
	TriggeredAlerts []TriggeredAlertDTO `json:"triggeredAlerts"`
}

func toAlertCheckDTO(check *domain.AlertCheck) AlertCheckDTO {
	dto := AlertCheckDTO{
		AlertsChecked:   check.AlertsChecked,
		TriggeredAlerts: make([]TriggeredAlertDTO, len(check.TriggeredAlerts)),
	}
	for i, result := range check.TriggeredAlerts {
		dto.TriggeredAlerts[i] = TriggeredAlertDTO{
			Alert:         toAlertDTO(&result.Alert),
			Triggered:     result.Triggered,
			TotalExpenses: result.TotalExpenses,
			Period: PeriodDTO{
				Start: result.Period.Start.Format(time.RFC3339),
				End:   result.Period.End.Format(time.RFC3339),
			},
		}
	}
	return dto
}
