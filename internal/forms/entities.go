package forms

import (
	"strconv"
	"strings"
	"time"

	"presales-tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// maxCommercialValue is the first value that no longer fits decimal(15,2).
var maxCommercialValue = decimal.New(1, 13)

type CustomerForm struct {
	Name           string `form:"name" binding:"required,max=200"`
	ContactDetails string `form:"contact_details" binding:"required"`
	Remarks        string `form:"remarks"`
}

func BindCustomer(c *gin.Context) (CustomerForm, FieldErrors) {
	var f CustomerForm
	fe := Bind(c, &f)

	f.Name = strings.TrimSpace(f.Name)
	f.ContactDetails = strings.TrimSpace(f.ContactDetails)
	f.Remarks = strings.TrimSpace(f.Remarks)
	requireText(fe, "name", f.Name)
	requireText(fe, "contact_details", f.ContactDetails)
	return f, fe
}

func CustomerFormFrom(m *models.Customer) CustomerForm {
	return CustomerForm{Name: m.Name, ContactDetails: m.ContactDetails, Remarks: deref(m.Remarks)}
}

func (f CustomerForm) Apply(m *models.Customer) {
	m.Name = f.Name
	m.ContactDetails = f.ContactDetails
	m.Remarks = optional(f.Remarks)
}

type ProjectForm struct {
	ProjectName string `form:"project_name" binding:"required,max=200"`
	CustomerID  uint   `form:"customer" binding:"required"`
	Country     string `form:"country" binding:"required,max=100"`
	Link        string `form:"link" binding:"required,url,max=200"`
}

func BindProject(c *gin.Context) (ProjectForm, FieldErrors) {
	var f ProjectForm
	fe := Bind(c, &f)

	f.ProjectName = strings.TrimSpace(f.ProjectName)
	f.Country = strings.TrimSpace(f.Country)
	f.Link = strings.TrimSpace(f.Link)
	requireText(fe, "project_name", f.ProjectName)
	requireText(fe, "country", f.Country)
	return f, fe
}

func ProjectFormFrom(m *models.Project) ProjectForm {
	return ProjectForm{ProjectName: m.ProjectName, CustomerID: m.CustomerID, Country: m.Country, Link: m.Link}
}

func (f ProjectForm) Apply(m *models.Project) {
	m.ProjectName = f.ProjectName
	m.CustomerID = f.CustomerID
	m.Country = f.Country
	m.Link = f.Link
}

type ProposalForm struct {
	ProjectID       uint   `form:"project" binding:"required"`
	Priority        string `form:"priority" binding:"required,oneof=P1 P2 P3"`
	Bandwidth       string `form:"bandwidth" binding:"required,max=100"`
	Gateway         string `form:"gateway" binding:"required,oneof=JAV SUB BHI PAK"`
	TerminalCount   string `form:"terminal_count" binding:"required,number"`
	TerminalType    string `form:"terminal_type" binding:"required,oneof=1m2_3W_MDM2510 1m8_5W_MDM2510 2m4_8W_MDM2510"`
	SalesDirector   string `form:"sales_director" binding:"required,max=200"`
	PresalesOwner   string `form:"presales_owner" binding:"omitempty,email,max=254"`
	SubmissionDate  string `form:"submission_date" binding:"required"`
	ProposalLink    string `form:"proposal_link" binding:"required,url,max=200"`
	CommercialValue string `form:"commercial_value" binding:"required"`
	Status          string `form:"status" binding:"required,oneof=ONGOING BLOCKED CLOSED"`
	Remarks         string `form:"remarks"`

	terminals uint
	submitted time.Time
	value     decimal.Decimal
}

// NewProposalForm returns the values a blank proposal form starts with.
func NewProposalForm() ProposalForm {
	return ProposalForm{
		Bandwidth:       models.DefaultBandwidth,
		Gateway:         string(models.GatewayJAV),
		TerminalCount:   "1",
		TerminalType:    string(models.Terminal1m2),
		PresalesOwner:   models.DefaultPresalesOwner,
		ProposalLink:    models.DefaultProposalLink,
		CommercialValue: "0",
		Status:          string(models.StatusOngoing),
	}
}

func BindProposal(c *gin.Context) (ProposalForm, FieldErrors) {
	var f ProposalForm
	fe := Bind(c, &f)

	f.Bandwidth = strings.TrimSpace(f.Bandwidth)
	f.SalesDirector = strings.TrimSpace(f.SalesDirector)
	f.PresalesOwner = strings.TrimSpace(f.PresalesOwner)
	f.Remarks = strings.TrimSpace(f.Remarks)
	requireText(fe, "sales_director", f.SalesDirector)

	if f.TerminalCount != "" {
		n, err := strconv.ParseUint(f.TerminalCount, 10, 32)
		switch {
		case err != nil:
			fe.Add("terminal_count", "terminal_count must be a whole number")
		case n < 1:
			fe.Add("terminal_count", "terminal_count must be 1 or greater")
		default:
			f.terminals = uint(n)
		}
	}

	if f.SubmissionDate != "" {
		d, err := time.Parse(dateLayout, strings.TrimSpace(f.SubmissionDate))
		if err != nil {
			fe.Add("submission_date", "submission_date must be a date (YYYY-MM-DD)")
		} else {
			f.submitted = d
		}
	}

	if s := strings.TrimSpace(f.CommercialValue); s != "" {
		v, err := decimal.NewFromString(s)
		switch {
		case err != nil:
			fe.Add("commercial_value", "commercial_value must be a number")
		case v.IsNegative():
			fe.Add("commercial_value", "commercial_value must be 0 or greater")
		case v.Exponent() < -2 && !v.Equal(v.Round(2)):
			fe.Add("commercial_value", "commercial_value must have at most 2 decimal places")
		case v.GreaterThanOrEqual(maxCommercialValue):
			fe.Add("commercial_value", "commercial_value is too large")
		default:
			f.value = v.Round(2)
		}
	}

	return f, fe
}

func ProposalFormFrom(m *models.Proposal) ProposalForm {
	return ProposalForm{
		ProjectID:       m.ProjectID,
		Priority:        string(m.Priority),
		Bandwidth:       m.Bandwidth,
		Gateway:         string(m.Gateway),
		TerminalCount:   strconv.FormatUint(uint64(m.TerminalCount), 10),
		TerminalType:    string(m.TerminalType),
		SalesDirector:   m.SalesDirector,
		PresalesOwner:   m.PresalesOwner,
		SubmissionDate:  m.SubmissionDate.Format(dateLayout),
		ProposalLink:    m.ProposalLink,
		CommercialValue: m.CommercialValue.StringFixed(2),
		Status:          string(m.Status),
		Remarks:         deref(m.Remarks),
	}
}

// Apply copies a successfully bound form onto m.
func (f ProposalForm) Apply(m *models.Proposal) {
	m.ProjectID = f.ProjectID
	m.Priority = models.ProposalPriority(f.Priority)
	m.Bandwidth = f.Bandwidth
	m.Gateway = models.Gateway(f.Gateway)
	m.TerminalCount = f.terminals
	m.TerminalType = models.TerminalType(f.TerminalType)
	m.SalesDirector = f.SalesDirector
	m.PresalesOwner = f.PresalesOwner
	m.SubmissionDate = f.submitted
	m.ProposalLink = f.ProposalLink
	m.CommercialValue = f.value
	m.Status = models.ProposalStatus(f.Status)
	m.Remarks = optional(f.Remarks)
}

type ProductForm struct {
	Item        string `form:"item" binding:"required,max=200"`
	Description string `form:"description" binding:"required"`
	Links       string `form:"links" binding:"required,url,max=200"`
}

func BindProduct(c *gin.Context) (ProductForm, FieldErrors) {
	var f ProductForm
	fe := Bind(c, &f)

	f.Item = strings.TrimSpace(f.Item)
	f.Description = strings.TrimSpace(f.Description)
	f.Links = strings.TrimSpace(f.Links)
	requireText(fe, "item", f.Item)
	requireText(fe, "description", f.Description)
	return f, fe
}

func ProductFormFrom(m *models.Product) ProductForm {
	return ProductForm{Item: m.Item, Description: m.Description, Links: m.Links}
}

func (f ProductForm) Apply(m *models.Product) {
	m.Item = f.Item
	m.Description = f.Description
	m.Links = f.Links
}

type StatusForm struct {
	Status string `form:"status" binding:"required,oneof=ONGOING BLOCKED CLOSED"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func requireText(fe FieldErrors, field, value string) {
	if value == "" {
		fe.Add(field, field+" is a required field")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
