// Package record defines the typed input of one certificate.
package record

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidRecord marks records that cannot be rendered.
var ErrInvalidRecord = errors.New("invalid record")

// Record is one row of certificate data. All fields are required.
type Record struct {
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	CertificateID       string `json:"certificateId"`
	CourseType          string `json:"courseType"`
	CompletionDate      string `json:"completionDate"` // M/D/YY
	InstitutionName     string `json:"institutionName"`
	MentorName          string `json:"mentorName"`
	MentorSignatureText string `json:"mentorSignatureText"`
	EventType           string `json:"eventType"`
}

// Field names as used in layout references, in declaration order.
const (
	FieldFullName            = "fullName"
	FieldEmail               = "email"
	FieldCertificateID       = "certificateId"
	FieldCourseType          = "courseType"
	FieldCompletionDate      = "completionDate"
	FieldInstitutionName     = "institutionName"
	FieldMentorName          = "mentorName"
	FieldMentorSignatureText = "mentorSignatureText"
	FieldEventType           = "eventType"
)

// FieldNames lists every field name in declaration order.
func FieldNames() []string {
	return []string{
		FieldFullName, FieldEmail, FieldCertificateID, FieldCourseType, FieldCompletionDate,
		FieldInstitutionName, FieldMentorName, FieldMentorSignatureText, FieldEventType,
	}
}

// columnAliases maps tabular column headings to field names.
var columnAliases = map[string]string{
	"name":             FieldFullName,
	"full_name":        FieldFullName,
	"email":            FieldEmail,
	"certificate_id":   FieldCertificateID,
	"course_type":      FieldCourseType,
	"completion_date":  FieldCompletionDate,
	"college_name":     FieldInstitutionName,
	"institution_name": FieldInstitutionName,
	"mentor_name":      FieldMentorName,
	"mentor_signature": FieldMentorSignatureText,
	"event_type":       FieldEventType,
}

// New validates r and returns it.
func New(r Record) (Record, error) {
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// FromMap builds a record from one row keyed by field names or by the
// tabular column headings (name, certificate_id, college_name, ...), and
// validates it.
func FromMap(row map[string]string) (Record, error) {
	return New(FromRow(row))
}

// FromRow is FromMap without validation, for callers which report invalid
// rows themselves. Values are trimmed, unknown columns ignored.
func FromRow(row map[string]string) Record {
	var r Record
	for key, val := range row {
		name := strings.TrimSpace(key)
		if alias, ok := columnAliases[strings.ToLower(name)]; ok {
			name = alias
		}
		if dst := r.field(name); dst != nil {
			*dst = strings.TrimSpace(val)
		}
	}
	return r
}

func (r *Record) field(name string) *string {
	switch name {
	case FieldFullName:
		return &r.FullName
	case FieldEmail:
		return &r.Email
	case FieldCertificateID:
		return &r.CertificateID
	case FieldCourseType:
		return &r.CourseType
	case FieldCompletionDate:
		return &r.CompletionDate
	case FieldInstitutionName:
		return &r.InstitutionName
	case FieldMentorName:
		return &r.MentorName
	case FieldMentorSignatureText:
		return &r.MentorSignatureText
	case FieldEventType:
		return &r.EventType
	default:
		return nil
	}
}

// Fields returns the record as a name → value map for interpolation.
func (r Record) Fields() map[string]string {
	out := make(map[string]string, 9)
	for _, name := range FieldNames() {
		out[name] = *r.field(name)
	}
	return out
}

// Validate reports every empty field, and certificate ids which cannot be
// used as a plain file name.
func (r Record) Validate() error {
	var missing []string
	for _, name := range FieldNames() {
		if strings.TrimSpace(*r.field(name)) == "" {
			missing = append(missing, name)
		}
	}
	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: missing %s", ErrInvalidRecord, strings.Join(missing, ", ")))
	}
	if id := r.CertificateID; id != "" && (id == "." || id == ".." || strings.ContainsAny(id, `/\`) || filepath.Base(id) != id) {
		errs = append(errs, fmt.Errorf("%w: certificateId %q is not a plain file name", ErrInvalidRecord, id))
	}
	return errors.Join(errs...)
}

// DisplayName is the name used in reports, "Unknown" if empty.
func (r Record) DisplayName() string {
	if name := strings.TrimSpace(r.FullName); name != "" {
		return name
	}
	return "Unknown"
}
