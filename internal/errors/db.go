package errors

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// "Key (source, license_number)=(florida, EC123) already exists."
	reDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "... is still referenced from table "sla_timers"."
	reStillReferenced = regexp.MustCompile(`still referenced from table "?([^"\s.]+)"?`)
	// "... is not present in table "jobs"."
	reNotPresent = regexp.MustCompile(`not present in table "?([^"\s.]+)"?`)
)

// tableNouns names each table the way clients see it.
var tableNouns = map[string]string{
	"jobs":                "job",
	"technicians":         "technician",
	"sla_timers":          "SLA timer",
	"sla_alerts":          "SLA alert",
	"work_order_outreach": "outreach",
	"outreach_recipients": "outreach recipient",
	"enrichment_targets":  "enrichment target",
	"cold_leads":          "cold lead",
	"leads":               "lead",
	"outbound_replies":    "reply",
}

// namedConstraint describes an explicitly named unique constraint or index.
type namedConstraint struct {
	field   string
	message string
}

var namedConstraints = map[string]namedConstraint{
	"uq_sla_timers_active":    {field: "stage", message: "SLA timers are already running for this job."},
	"uq_sla_alerts_once":      {field: "alert_type", message: "This alert was already recorded for the stage."},
	"uq_cold_leads_email":     {field: "email", message: "This email is already a cold lead."},
	"uq_leads_source_license": {field: "license_number", message: "A lead with this license number already exists for the source."},
}

// tablesByLength lists known tables longest first so "outreach_recipients"
// wins over shorter prefixes when parsing default constraint names.
var tablesByLength = func() []string {
	out := make([]string, 0, len(tableNouns))
	for t := range tableNouns {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}()

// MapDBError translates driver and context errors into AppErrors. Errors it
// does not recognize are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	var out *AppError
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		out = uniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		out = Wrap(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.NotNullViolation:
		out = Wrap(pgErr, ErrCodeValidation, "This field is required.")
		out.Field = pgErr.ColumnName
	case pgerrcode.CheckViolation:
		out = Wrap(pgErr, ErrCodeValidation, "This field has an invalid value.")
		out.Field = firstNonEmpty(pgErr.ColumnName, constraintColumn(pgErr.ConstraintName, "_check"))
	default:
		out = Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
	return out
}

func uniqueViolation(pgErr *pgconn.PgError) *AppError {
	if named, ok := namedConstraints[pgErr.ConstraintName]; ok {
		out := Wrap(pgErr, ErrCodeConflict, named.message)
		out.Field = named.field
		return out
	}

	out := Wrap(pgErr, ErrCodeConflict, "This value already exists. Please choose a different one.")
	out.Field = pgErr.ColumnName
	if out.Field == "" {
		if m := reDetailKey.FindStringSubmatch(pgErr.Detail); m != nil {
			out.Field = m[1]
		}
	}
	if out.Field == "" {
		out.Field = constraintColumn(pgErr.ConstraintName, "_key")
	}
	return out
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reStillReferenced.FindStringSubmatch(pgErr.Detail); m != nil {
		return "Cannot delete because this item is in use by " + withArticle(nounFor(m[1])) + "."
	}
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); m != nil {
		return "Cannot complete operation because the referenced " + nounFor(m[1]) + " does not exist."
	}
	table := firstNonEmpty(pgErr.TableName, constraintTable(pgErr.ConstraintName))
	if table != "" {
		return "Cannot complete operation because this item is in use by " + withArticle(nounFor(table)) + "."
	}
	return "Cannot complete operation because this item is in use."
}

// constraintTable returns the known table a default-named constraint such as
// "sla_timers_job_id_fkey" belongs to.
func constraintTable(constraint string) string {
	for _, t := range tablesByLength {
		if strings.HasPrefix(constraint, t+"_") {
			return t
		}
	}
	return ""
}

// constraintColumn extracts the column from a default-named single-column
// constraint, e.g. "jobs_status_check" with suffix "_check" yields "status".
func constraintColumn(constraint, suffix string) string {
	table := constraintTable(constraint)
	if table == "" || !strings.HasSuffix(constraint, suffix) {
		return ""
	}
	return strings.TrimPrefix(strings.TrimSuffix(constraint, suffix), table+"_")
}

func nounFor(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if noun, ok := tableNouns[table]; ok {
		return noun
	}
	return strings.ReplaceAll(table, "_", " ")
}

func withArticle(noun string) string {
	if noun == "" {
		return noun
	}
	if strings.HasPrefix(noun, "SLA") {
		return "an " + noun
	}
	switch noun[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + noun
	default:
		return "a " + noun
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
