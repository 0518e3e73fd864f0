package webhook

import (
	"encoding/json"
	"strings"

	"github.com/vantagehq/vantage/internal/identity/domain"
)

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type userData struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
	ImageURL  *string `json:"image_url"`
}

type organizationData struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      *string `json:"slug"`
	ImageURL  *string `json:"image_url"`
	CreatedBy string  `json:"created_by"`
}

type membershipData struct {
	Organization struct {
		ID string `json:"id"`
	} `json:"organization"`
	PublicUserData struct {
		UserID string `json:"user_id"`
	} `json:"public_user_data"`
	Role string `json:"role"`
}

// Classify parses a verified payload into one typed event per recognized
// kind. Unrecognized kinds return ErrEventIgnored so the caller can
// acknowledge them without retrying; malformed required fields within a
// recognized kind return ErrInvalidEvent.
func Classify(payload []byte) (domain.Event, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	kind := strings.TrimSpace(env.Type)
	switch kind {
	case domain.KindUserCreated, domain.KindUserUpdated:
		return classifyUserUpserted(kind, env.Data)
	case domain.KindUserDeleted:
		return classifyUserDeleted(env.Data)
	case domain.KindOrgCreated:
		return classifyOrgCreated(env.Data)
	case domain.KindOrgUpdated:
		return classifyOrgUpdated(env.Data)
	case domain.KindOrgDeleted:
		return classifyOrgDeleted(env.Data)
	case domain.KindMembershipCreated, domain.KindMembershipUpdated:
		return classifyMembershipUpserted(kind, env.Data)
	case domain.KindMembershipDeleted:
		return classifyMembershipDeleted(env.Data)
	default:
		return nil, domain.ErrEventIgnored
	}
}

func classifyUserUpserted(kind string, data json.RawMessage) (domain.Event, error) {
	var user userData
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(user.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}

	return domain.UserUpserted{
		EventKind:   kind,
		ClerkUserID: user.ID,
		FullName:    deriveFullName(user.FirstName, user.LastName),
		Username:    trimmed(user.Username),
		AvatarURL:   trimmed(user.ImageURL),
	}, nil
}

func classifyUserDeleted(data json.RawMessage) (domain.Event, error) {
	var user userData
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(user.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}
	return domain.UserDeleted{ClerkUserID: user.ID}, nil
}

func classifyOrgCreated(data json.RawMessage) (domain.Event, error) {
	var org organizationData
	if err := json.Unmarshal(data, &org); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(org.ID) == "" || strings.TrimSpace(org.Name) == "" || strings.TrimSpace(org.CreatedBy) == "" {
		return nil, domain.ErrInvalidEvent
	}

	return domain.OrganizationCreated{
		ClerkOrganizationID: org.ID,
		Name:                org.Name,
		Slug:                trimmed(org.Slug),
		AvatarURL:           trimmed(org.ImageURL),
		CreatedBy:           org.CreatedBy,
	}, nil
}

func classifyOrgUpdated(data json.RawMessage) (domain.Event, error) {
	var org organizationData
	if err := json.Unmarshal(data, &org); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(org.ID) == "" || strings.TrimSpace(org.Name) == "" {
		return nil, domain.ErrInvalidEvent
	}

	return domain.OrganizationUpdated{
		ClerkOrganizationID: org.ID,
		Name:                org.Name,
		Slug:                trimmed(org.Slug),
		AvatarURL:           trimmed(org.ImageURL),
	}, nil
}

func classifyOrgDeleted(data json.RawMessage) (domain.Event, error) {
	var org organizationData
	if err := json.Unmarshal(data, &org); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(org.ID) == "" {
		return nil, domain.ErrInvalidEvent
	}
	return domain.OrganizationDeleted{ClerkOrganizationID: org.ID}, nil
}

func classifyMembershipUpserted(kind string, data json.RawMessage) (domain.Event, error) {
	var member membershipData
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(member.Organization.ID) == "" ||
		strings.TrimSpace(member.PublicUserData.UserID) == "" ||
		strings.TrimSpace(member.Role) == "" {
		return nil, domain.ErrInvalidEvent
	}

	return domain.MembershipUpserted{
		EventKind:           kind,
		ClerkOrganizationID: member.Organization.ID,
		ClerkUserID:         member.PublicUserData.UserID,
		Role:                member.Role,
	}, nil
}

func classifyMembershipDeleted(data json.RawMessage) (domain.Event, error) {
	var member membershipData
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, domain.ErrInvalidEvent
	}
	if strings.TrimSpace(member.Organization.ID) == "" ||
		strings.TrimSpace(member.PublicUserData.UserID) == "" {
		return nil, domain.ErrInvalidEvent
	}

	return domain.MembershipDeleted{
		ClerkOrganizationID: member.Organization.ID,
		ClerkUserID:         member.PublicUserData.UserID,
	}, nil
}

// deriveFullName joins the non-empty name parts with a space. An empty
// result normalizes to absent so an update does not blank a previously
// set name.
func deriveFullName(first, last *string) *string {
	parts := make([]string, 0, 2)
	for _, part := range []*string{first, last} {
		if part == nil {
			continue
		}
		if value := strings.TrimSpace(*part); value != "" {
			parts = append(parts, value)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	full := strings.Join(parts, " ")
	return &full
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
