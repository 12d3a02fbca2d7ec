package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
	"github.com/designarthur/catdump/internal/mail"
	"github.com/designarthur/catdump/internal/repositories"
	"github.com/designarthur/catdump/internal/utils"
)

// QuoteSubmission is the public intake payload. Contact fields are shared;
// exactly one of EquipmentDetails / JunkDetails applies depending on the
// service type.
type QuoteSubmission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Company      string `json:"company"`
	CustomerType string `json:"customer_type"`

	ServiceType        string `json:"service_type"`
	Location           string `json:"location"`
	IsUrgent           bool   `json:"is_urgent"`
	IsLiveLoad         bool   `json:"is_live_load"`
	DriverInstructions string `json:"driver_instructions"`

	EquipmentDetails []EquipmentItemInput `json:"equipment_details"`
	JunkDetails      *JunkDetailsInput    `json:"junk_details"`
}

type EquipmentItemInput struct {
	EquipmentName     string `json:"equipment_name"`
	Quantity          int    `json:"quantity"`
	Duration          string `json:"duration"`
	Weight            string `json:"weight"`
	DeliveryDate      string `json:"delivery_date"`
	PickupDate        string `json:"pickup_date"`
	PlacementLocation string `json:"placement_location"`
	MaterialType      string `json:"material_type"`
	Notes             string `json:"notes"`
}

type JunkDetailsInput struct {
	JunkItems         []JunkItemInput `json:"junk_items"`
	PreferredDate     string          `json:"preferred_date"`
	PreferredTime     string          `json:"preferred_time"`
	AdditionalComment string          `json:"additional_comment"`
}

type JunkItemInput struct {
	ItemType        string `json:"item_type"`
	Quantity        int    `json:"quantity"`
	EstimatedWeight string `json:"estimated_weight"`
}

// SubmissionResult reports what the intake created; TempPassword is non-empty
// only when a new account was provisioned.
type SubmissionResult struct {
	QuoteID      int64
	UserID       int64
	NewAccount   bool
	TempPassword string
}

type QuoteService struct {
	UserRepo         repositories.UserRepo
	QuoteRepo        repositories.QuoteRepo
	NotificationRepo repositories.NotificationRepo
	DB               *sql.DB
	RequestID        string

	Mailer     mail.Sender
	AdminEmail string
}

func (s QuoteService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s QuoteService) mailer() mail.Sender {
	if s.Mailer != nil {
		return s.Mailer
	}
	return mail.LogSender{}
}

// Submit validates the form, upserts the customer account, persists the quote
// with its line items and fans out admin notifications, all in one
// transaction. Confirmation emails go out only after the commit succeeds.
func (s QuoteService) Submit(sub QuoteSubmission, rawPayload []byte) (SubmissionResult, error) {
	var res SubmissionResult

	if err := validateCommonFields(&sub); err != nil {
		return res, err
	}

	svc := models.ServiceType(strings.TrimSpace(sub.ServiceType))
	if !svc.Valid() {
		return res, domain.ValidationError{Field: "service_type", Msg: fmt.Sprintf("unknown service type %q", sub.ServiceType)}
	}

	quote := models.Quote{
		ServiceType:        svc,
		Status:             models.QuotePending,
		CustomerType:       utils.TrimOrEmpty(sub.CustomerType),
		Location:           utils.TrimOrEmpty(sub.Location),
		IsUrgent:           sub.IsUrgent,
		IsLiveLoad:         sub.IsLiveLoad,
		DriverInstructions: utils.TrimOrEmpty(sub.DriverInstructions),
		FormPayload:        string(rawPayload),
	}
	if quote.Location == "" {
		quote.Location = fmt.Sprintf("%s, %s, %s %s", sub.Address, sub.City, sub.State, sub.Zip)
	}

	var equipment []models.EquipmentDetail
	var junkItemsJSON string
	switch svc {
	case models.ServiceEquipmentRental:
		var err error
		equipment, err = buildEquipmentDetails(sub.EquipmentDetails)
		if err != nil {
			return res, err
		}
		quote.DeliveryDate, quote.PickupDate = deriveQuoteDates(equipment)
	case models.ServiceJunkRemoval:
		if sub.JunkDetails == nil || len(sub.JunkDetails.JunkItems) == 0 {
			return res, domain.ValidationError{Field: "junk_details", Msg: "at least one junk item is required"}
		}
		itemsJSON, err := json.Marshal(sub.JunkDetails.JunkItems)
		if err != nil {
			return res, domain.ValidationError{Field: "junk_details", Msg: "items are not serializable", Err: err}
		}
		junkItemsJSON = string(itemsJSON)
		if d := strings.TrimSpace(sub.JunkDetails.PreferredDate); d != "" {
			t, err := utils.ParseFlexibleDate(d)
			if err != nil {
				return res, domain.ValidationError{Field: "preferred_date", Msg: "invalid date", Err: err}
			}
			quote.RemovalDate = &t
		}
		quote.PreferredTime = utils.TrimOrEmpty(sub.JunkDetails.PreferredTime)
		quote.AdditionalComment = utils.TrimOrEmpty(sub.JunkDetails.AdditionalComment)
	}

	tx, err := s.db().Begin()
	if err != nil {
		return res, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	user, created, tempPassword, err := s.upsertUser(tx, sub)
	if err != nil {
		return res, err
	}
	quote.UserID = user.ID

	quoteID, err := s.QuoteRepo.Insert(tx, quote)
	if err != nil {
		return res, domain.InternalError{Err: err}
	}

	switch svc {
	case models.ServiceEquipmentRental:
		for _, item := range equipment {
			if err := s.QuoteRepo.InsertEquipmentDetail(tx, quoteID, item); err != nil {
				return res, domain.InternalError{Err: err}
			}
		}
	case models.ServiceJunkRemoval:
		if err := s.QuoteRepo.InsertJunkDetail(tx, quoteID, junkItemsJSON, quote.AdditionalComment); err != nil {
			return res, domain.InternalError{Err: err}
		}
	}

	adminIDs, err := s.UserRepo.ListAdminIDs(tx)
	if err != nil {
		return res, domain.InternalError{Err: err}
	}
	for _, adminID := range adminIDs {
		n := models.Notification{
			RecipientID: adminID,
			Type:        models.NotifNewQuote,
			Message:     fmt.Sprintf("New %s quote #%d from %s", svc, quoteID, user.Name),
			Link:        fmt.Sprintf("/admin/quotes/%d", quoteID),
		}
		if err := s.NotificationRepo.Insert(tx, n); err != nil {
			return res, domain.InternalError{Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return res, domain.InternalError{Err: err}
	}

	res = SubmissionResult{QuoteID: quoteID, UserID: user.ID, NewAccount: created, TempPassword: tempPassword}
	s.sendEmails(user, quote, res)

	utils.LogEvent(s.RequestID, "quote", "submit",
		fmt.Sprintf("quote_id=%d user_id=%d service=%s new_account=%t", quoteID, user.ID, svc, created))
	return res, nil
}

func validateCommonFields(sub *QuoteSubmission) error {
	sub.Name = utils.NormalizeSpace(sub.Name)
	sub.Email = utils.NormalizeEmail(sub.Email)
	sub.Phone = utils.TrimOrEmpty(sub.Phone)
	sub.Address = utils.TrimOrEmpty(sub.Address)
	sub.City = utils.TrimOrEmpty(sub.City)
	sub.State = utils.TrimOrEmpty(sub.State)
	sub.Zip = utils.TrimOrEmpty(sub.Zip)

	required := []struct{ field, value string }{
		{"name", sub.Name},
		{"email", sub.Email},
		{"phone", sub.Phone},
		{"address", sub.Address},
		{"city", sub.City},
		{"state", sub.State},
		{"zip", sub.Zip},
		{"service_type", strings.TrimSpace(sub.ServiceType)},
	}
	for _, r := range required {
		if r.value == "" {
			return domain.ValidationError{Field: r.field, Msg: "required"}
		}
	}
	if !utils.ValidEmail(sub.Email) {
		return domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	return nil
}

func buildEquipmentDetails(items []EquipmentItemInput) ([]models.EquipmentDetail, error) {
	if len(items) == 0 {
		return nil, domain.ValidationError{Field: "equipment_details", Msg: "at least one equipment item is required"}
	}
	out := make([]models.EquipmentDetail, 0, len(items))
	for i, in := range items {
		name := utils.NormalizeSpace(in.EquipmentName)
		if name == "" {
			return nil, domain.ValidationError{Field: "equipment_details", Msg: fmt.Sprintf("item %d is missing an equipment name", i+1)}
		}
		qty := in.Quantity
		if qty <= 0 {
			qty = 1
		}
		d := models.EquipmentDetail{
			EquipmentName: name,
			Quantity:      qty,
			Duration:      utils.TrimOrEmpty(in.Duration),
			Weight:        utils.TrimOrEmpty(in.Weight),
			SpecificNeeds: foldSpecificNeeds(in),
		}
		if s := strings.TrimSpace(in.DeliveryDate); s != "" {
			t, err := utils.ParseFlexibleDate(s)
			if err != nil {
				return nil, domain.ValidationError{Field: "delivery_date", Msg: fmt.Sprintf("item %d has an invalid delivery date", i+1), Err: err}
			}
			d.DeliveryDate = &t
		}
		if s := strings.TrimSpace(in.PickupDate); s != "" {
			t, err := utils.ParseFlexibleDate(s)
			if err != nil {
				return nil, domain.ValidationError{Field: "pickup_date", Msg: fmt.Sprintf("item %d has an invalid pickup date", i+1), Err: err}
			}
			d.PickupDate = &t
		}
		out = append(out, d)
	}
	return out, nil
}

// foldSpecificNeeds rebuilds the free-text "specific needs" column from the
// structured sub-fields the form collects.
func foldSpecificNeeds(in EquipmentItemInput) string {
	var parts []string
	if v := utils.TrimOrEmpty(in.PlacementLocation); v != "" {
		parts = append(parts, "Placement: "+v)
	}
	if v := utils.TrimOrEmpty(in.MaterialType); v != "" {
		parts = append(parts, "Material: "+v)
	}
	if v := utils.TrimOrEmpty(in.Notes); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, "; ")
}

// deriveQuoteDates summarizes per-item scheduling onto the quote: earliest
// delivery, latest pickup.
func deriveQuoteDates(items []models.EquipmentDetail) (*time.Time, *time.Time) {
	var delivery, pickup *time.Time
	for _, it := range items {
		if it.DeliveryDate != nil && (delivery == nil || it.DeliveryDate.Before(*delivery)) {
			t := *it.DeliveryDate
			delivery = &t
		}
		if it.PickupDate != nil && (pickup == nil || it.PickupDate.After(*pickup)) {
			t := *it.PickupDate
			pickup = &t
		}
	}
	return delivery, pickup
}

func (s QuoteService) upsertUser(tx intdb.DBTX, sub QuoteSubmission) (models.User, bool, string, error) {
	incoming := models.User{
		Name:    sub.Name,
		Email:   sub.Email,
		Phone:   sub.Phone,
		Address: sub.Address,
		City:    sub.City,
		State:   sub.State,
		Zip:     sub.Zip,
		Company: utils.TrimOrEmpty(sub.Company),
		Role:    models.RoleCustomer,
	}

	existing, err := s.UserRepo.GetByEmail(tx, sub.Email)
	switch {
	case err == nil:
		if err := s.UserRepo.UpdateProfile(tx, existing.ID, incoming); err != nil {
			return models.User{}, false, "", domain.InternalError{Err: err}
		}
		incoming.ID = existing.ID
		incoming.Role = existing.Role
		return incoming, false, "", nil
	case domain.IsNotFound(err):
		tempPassword, err := utils.GenerateTempPassword(12)
		if err != nil {
			return models.User{}, false, "", domain.InternalError{Err: err}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, false, "", domain.InternalError{Err: err}
		}
		incoming.PasswordHash = string(hash)
		id, err := s.UserRepo.Create(tx, incoming)
		if err != nil {
			return models.User{}, false, "", domain.InternalError{Err: err}
		}
		incoming.ID = id
		return incoming, true, tempPassword, nil
	default:
		return models.User{}, false, "", domain.InternalError{Err: err}
	}
}

// sendEmails runs after the commit; a delivery failure is logged and never
// unwinds the stored quote.
func (s QuoteService) sendEmails(user models.User, quote models.Quote, res SubmissionResult) {
	data := mail.QuoteEmailData{
		QuoteID:      res.QuoteID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		Location:     quote.Location,
		ServiceLabel: quote.ServiceType.Label(),
		TempPassword: res.TempPassword,
	}

	if body, err := mail.RenderQuoteConfirmation(data); err == nil {
		if err := s.mailer().Send(user.Email, "We received your Catdump quote request", body); err != nil {
			utils.LogEvent(s.RequestID, "quote", "mail_error", err.Error())
		}
	} else {
		utils.LogEvent(s.RequestID, "quote", "mail_render_error", err.Error())
	}

	if s.AdminEmail == "" {
		return
	}
	if body, err := mail.RenderAdminNewQuote(data); err == nil {
		if err := s.mailer().Send(s.AdminEmail, fmt.Sprintf("New quote request #%d", res.QuoteID), body); err != nil {
			utils.LogEvent(s.RequestID, "quote", "mail_error", err.Error())
		}
	} else {
		utils.LogEvent(s.RequestID, "quote", "mail_render_error", err.Error())
	}
}
