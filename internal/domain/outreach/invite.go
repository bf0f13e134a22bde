package outreach

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tradedispatch/dispatch-api/internal/domain/model"
)

// Partition splits candidates with an email into warm (signed up) and cold.
// Candidates without an email are dropped.
func Partition(cands []model.Candidate) (warm, cold []model.Candidate) {
	for _, c := range cands {
		if !c.HasEmail() {
			continue
		}
		if c.IsWarm() {
			warm = append(warm, c)
		} else {
			cold = append(cold, c)
		}
	}
	return warm, cold
}

// Links builds the URLs embedded in an invitation.
type Links struct {
	BaseURL      string
	AcceptPath   string
	TrackingPath string
}

// AcceptURL is where the technician accepts the job.
func (l Links) AcceptURL(jobID string) string {
	return l.join(fmt.Sprintf(l.AcceptPath, url.PathEscape(jobID)))
}

// TrackingURL is the open-tracking pixel for one recipient.
func (l Links) TrackingURL(recipientID string) string {
	return l.join(fmt.Sprintf(l.TrackingPath, url.PathEscape(recipientID)))
}

func (l Links) join(path string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// TemplateVars is the payload merged into the warm invitation template and
// the custom fields of a cold campaign lead.
func TemplateVars(job *model.Job, c model.Candidate, links Links, recipientID string) map[string]string {
	return map[string]string{
		"technician_name":    firstNonEmpty(c.Name, "there"),
		"job_id":             job.ID,
		"job_trade":          job.Trade,
		"job_location":       job.Location(),
		"job_urgency":        job.Urgency,
		"job_budget":         job.BudgetDisplay(),
		"job_schedule":       job.ScheduleDisplay(),
		"job_description":    job.Description,
		"accept_url":         links.AcceptURL(job.ID),
		"tracking_pixel_url": links.TrackingURL(recipientID),
	}
}

// SplitName splits a display name into first and last parts.
func SplitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
