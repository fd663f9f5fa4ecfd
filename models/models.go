package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleProjectOwner Role = "project_owner"
	RoleVendor       Role = "vendor"
)

func (r Role) Valid() bool {
	return r == RoleProjectOwner || r == RoleVendor
}

type RfqStatus string

const (
	RfqOpen    RfqStatus = "open"
	RfqClosed  RfqStatus = "closed"
	RfqAwarded RfqStatus = "awarded"
)

func (s RfqStatus) Valid() bool {
	switch s {
	case RfqOpen, RfqClosed, RfqAwarded:
		return true
	}
	return false
}

type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSubmitted QuoteStatus = "submitted"
	QuoteRevised   QuoteStatus = "revised"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
)

func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSubmitted, QuoteRevised, QuoteAccepted, QuoteRejected:
		return true
	}
	return false
}

// Project is owned by a project_owner user; OwnerID never changes after creation.
type Project struct {
	ID          int        `json:"id"`
	CustomID    string     `json:"custom_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Deadline    string     `json:"deadline,omitempty"`
	OwnerID     int        `json:"owner_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Requirement is a line item of a project bill of quantities.
type Requirement struct {
	ID          int      `json:"id"`
	ProjectID   int      `json:"project_id"`
	ItemName    string   `json:"item_name"`
	Description string   `json:"description,omitempty"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Rate        *float64 `json:"rate,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// Total is quantity × rate, zero when no rate is set.
func (r Requirement) Total() float64 {
	if r.Rate == nil {
		return 0
	}
	return r.Quantity * *r.Rate
}

type Rfq struct {
	ID                  int        `json:"id"`
	ProjectID           int        `json:"project_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description,omitempty"`
	Deadline            string     `json:"deadline"`
	Status              RfqStatus  `json:"status"`
	ContactPerson       string     `json:"contact_person,omitempty"`
	ContactEmail        string     `json:"contact_email,omitempty"`
	ContactPhone        string     `json:"contact_phone,omitempty"`
	SpecialRequirements string     `json:"special_requirements,omitempty"`
	CreatedAt           *time.Time `json:"created_at,omitempty"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

func (r Rfq) IsOpen() bool { return r.Status == RfqOpen }

type ProjectDetails struct {
	ID          int    `json:"id"`
	CustomID    string `json:"custom_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     int    `json:"owner_id,omitempty"`
}

type RfqDetails struct {
	ID          int    `json:"id"`
	CustomID    string `json:"custom_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type VendorDetails struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	CompanyName   string `json:"company_name"`
	Email         string `json:"email"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gst_number,omitempty"`
}

// Quote is a vendor bid against one RFQ.
type Quote struct {
	ID             int             `json:"id"`
	CustomID       string          `json:"custom_id,omitempty"`
	RfqID          int             `json:"rfq_id"`
	VendorID       int             `json:"vendor_id"`
	Status         QuoteStatus     `json:"status"`
	TotalAmount    float64         `json:"total_amount"`
	ProjectDetails *ProjectDetails `json:"project_details,omitempty"`
	RfqDetails     *RfqDetails     `json:"rfq_details,omitempty"`
	VendorDetails  *VendorDetails  `json:"vendor_details,omitempty"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

type Vendor struct {
	ID            int    `json:"id"`
	UserID        int    `json:"user_id"`
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gst_number,omitempty"`
}

type User struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	CompanyName   string `json:"company_name,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	GSTNumber     string `json:"gst_number,omitempty"`
}

type Document struct {
	ID           int        `json:"id"`
	EntityType   EntityKind `json:"entity_type"`
	EntityID     int        `json:"entity_id"`
	Filename     string     `json:"filename"`
	OriginalName string     `json:"original_name"`
	FilePath     string     `json:"file_path"`
	FileSize     int64      `json:"file_size"`
	MimeType     string     `json:"mime_type"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// EntityKind is the closed set of entities a document can be attached to.
type EntityKind string

const (
	KindProject     EntityKind = "project"
	KindRfq         EntityKind = "rfq"
	KindQuote       EntityKind = "quote"
	KindRequirement EntityKind = "requirement"
)

func ParseEntityKind(s string) (EntityKind, error) {
	switch k := EntityKind(s); k {
	case KindProject, KindRfq, KindQuote, KindRequirement:
		return k, nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// EntityRef addresses the owner of a document.
type EntityRef struct {
	Kind EntityKind
	ID   int
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Identity is the client-held session: who is logged in and with which token.
type Identity struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
