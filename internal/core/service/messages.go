package service

import (
	"fmt"
	"strings"

	"github.com/manaable/leave-api/internal/core/domain"
)

const displayDate = "2006-01-02"

func leaveRequestMessage(employeeName string, r *domain.LeaveRecord) (subject, body string) {
	subject = "New Leave Request from " + employeeName
	body = fmt.Sprintf(`A new leave request has been submitted:

Employee: %s
Leave Type: %s
Start Date: %s
End Date: %s

Please login to the HR system to approve or reject this request.
`, employeeName, r.Type, r.StartDate.Format(displayDate), r.EndDate.Format(displayDate))
	return subject, body
}

func statusUpdateMessage(r *domain.LeaveRecord) (subject, body string) {
	status := string(r.Status)
	subject = "Leave Request " + strings.ToUpper(status[:1]) + status[1:]
	body = fmt.Sprintf(`Your leave request has been %s:

Leave Type: %s
Start Date: %s
End Date: %s
`, status, r.Type, r.StartDate.Format(displayDate), r.EndDate.Format(displayDate))
	if r.Comments != "" {
		body += "Comments: " + r.Comments + "\n"
	}
	body += "\nPlease login to the HR system for more details.\n"
	return subject, body
}
