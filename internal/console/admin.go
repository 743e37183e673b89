package console

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"blpgate/internal/audit"
	id "blpgate/pkg/domain"
)

func (c *Console) handleListUsers(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	listed, err := c.admin.ListUsers(ctx, c.current.ID)
	if err != nil {
		c.printError(err)
		return
	}
	if len(listed) == 0 {
		fmt.Fprintln(c.out, "No users found")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUsername\tSecurity Level\tSuper Admin\tActive\tCreated")
	for _, user := range listed {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			user.ID.String(),
			user.Username,
			user.SecurityLevel.String(),
			yesNo(user.IsSuperAdmin),
			yesNo(user.IsActive),
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
	fmt.Fprintf(c.out, "\nTotal users: %d\n", len(listed))
}

func (c *Console) handleUserInfo(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	input, ok := c.ask("Enter user ID (or leave blank for your info): ")
	if !ok {
		return
	}
	targetID := c.current.ID
	if input != "" {
		parsed, err := id.ParseUserID(input)
		if err != nil {
			fmt.Fprintln(c.out, "Error: Please enter a valid user ID")
			return
		}
		targetID = parsed
	}
	info, err := c.admin.GetUserInfo(ctx, c.current.ID, targetID)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "\nUser Information:")
	fmt.Fprintf(c.out, "  Id: %s\n", info.ID.String())
	fmt.Fprintf(c.out, "  Username: %s\n", info.Username)
	fmt.Fprintf(c.out, "  Security Level: %s\n", info.SecurityLevel.String())
	fmt.Fprintf(c.out, "  Super Admin: %t\n", info.IsSuperAdmin)
	fmt.Fprintf(c.out, "  Active: %t\n", info.IsActive)
	fmt.Fprintf(c.out, "  Created At: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
}

func (c *Console) handleChangeLevel(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	targetInput, ok := c.ask("Enter target user ID: ")
	if !ok {
		return
	}
	targetID, err := id.ParseUserID(targetInput)
	if err != nil {
		fmt.Fprintln(c.out, "Error: Please enter a valid user ID")
		return
	}
	levelInput, ok := c.ask("Enter new security level (0-3): ")
	if !ok {
		return
	}
	levelValue, err := strconv.Atoi(levelInput)
	if err != nil {
		fmt.Fprintln(c.out, "Error: Please enter valid numbers")
		return
	}
	if err := c.admin.ChangeUserLevel(ctx, c.current.ID, targetID, id.SecurityLevel(levelValue)); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "Success: Security level changed")
}

func (c *Console) handleSetActive(ctx context.Context, active bool) {
	if !c.requireLogin() {
		return
	}
	targetInput, ok := c.ask("Enter target user ID: ")
	if !ok {
		return
	}
	targetID, err := id.ParseUserID(targetInput)
	if err != nil {
		fmt.Fprintln(c.out, "Error: Please enter a valid user ID")
		return
	}
	if active {
		err = c.admin.ActivateUser(ctx, c.current.ID, targetID)
	} else {
		err = c.admin.DeactivateUser(ctx, c.current.ID, targetID)
	}
	if err != nil {
		c.printError(err)
		return
	}
	if active {
		fmt.Fprintln(c.out, "Success: Account activated")
	} else {
		fmt.Fprintln(c.out, "Success: Account deactivated")
	}
}

func (c *Console) handleShowAudit(ctx context.Context) {
	events, err := c.reports.List(ctx, audit.Query{Limit: 20})
	if err != nil {
		c.printError(err)
		return
	}
	c.printEvents(events)
}

func (c *Console) handleFilterAudit(ctx context.Context) {
	fmt.Fprintln(c.out, "\nFilter options:")
	fmt.Fprintln(c.out, "1 - Success events only")
	fmt.Fprintln(c.out, "2 - Failed events only")
	fmt.Fprintln(c.out, "3 - Login events")
	fmt.Fprintln(c.out, "4 - Object access events")
	fmt.Fprintln(c.out, "5 - Object modification events")

	choice, ok := c.ask("Select filter (or Enter for all): ")
	if !ok {
		return
	}
	query := audit.Query{Limit: 30}
	succeeded, failed := true, false
	switch choice {
	case "1":
		query.Success = &succeeded
	case "2":
		query.Success = &failed
	case "3":
		query.Type = audit.EventUserLogin
	case "4":
		query.Type = audit.EventReadAccess
	case "5":
		query.Type = audit.EventWriteAccess
	}
	events, err := c.reports.List(ctx, query)
	if err != nil {
		c.printError(err)
		return
	}
	c.printEvents(events)
}

func (c *Console) printEvents(events []audit.Event) {
	if len(events) == 0 {
		fmt.Fprintln(c.out, "No audit logs found")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Timestamp\tUser\tEvent\tDetails\tResult")
	for _, event := range events {
		subject := "Unknown"
		if !event.SubjectID.IsNil() {
			subject = event.SubjectID.String()
		}
		result := "FAILED"
		if event.Success {
			result = "SUCCESS"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			event.Timestamp.Format("2006-01-02 15:04:05"),
			subject,
			string(event.Type),
			event.Details,
			result,
		)
	}
	w.Flush()
	fmt.Fprintf(c.out, "\nShowing %d events\n", len(events))
}

func (c *Console) handleStats(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	stats, err := c.admin.SystemStatistics(ctx, c.current.ID)
	if err != nil {
		c.printError(err)
		return
	}

	fmt.Fprintln(c.out, "\nSYSTEM STATISTICS")
	fmt.Fprintln(c.out, "==================================================")

	fmt.Fprintln(c.out, "\nUSERS:")
	fmt.Fprintf(c.out, "  Total Users: %d\n", stats.Users.Total)
	fmt.Fprintf(c.out, "  Active Users: %d\n", stats.Users.Active)
	fmt.Fprintf(c.out, "  Super Admins: %d\n", stats.Users.SuperAdmins)

	fmt.Fprintln(c.out, "\nOBJECTS:")
	total := 0
	for _, count := range stats.ObjectsByLevel {
		total += count
	}
	fmt.Fprintf(c.out, "  Total Objects: %d\n", total)
	for _, level := range id.Levels() {
		if count, ok := stats.ObjectsByLevel[level]; ok {
			fmt.Fprintf(c.out, "  %s: %d\n", level.String(), count)
		}
	}

	fmt.Fprintln(c.out, "\nAUDIT:")
	fmt.Fprintf(c.out, "  Total Events: %d\n", stats.Audit.TotalEvents)
	fmt.Fprintf(c.out, "  Successful: %d\n", stats.Audit.SuccessEvents)
	fmt.Fprintf(c.out, "  Failed: %d\n", stats.Audit.FailedEvents)

	fmt.Fprintln(c.out, "\nEVENT TYPES:")
	for eventType, count := range stats.Audit.ByType {
		fmt.Fprintf(c.out, "  %s: %d\n", string(eventType), count)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
