package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"blpgate/internal/domain"
	id "blpgate/pkg/domain"
)

func (c *Console) handleCreateObject(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	name, ok := c.ask("Enter object name: ")
	if !ok {
		return
	}
	content, ok := c.ask("Enter object content: ")
	if !ok {
		return
	}
	fmt.Fprintln(c.out, "Available security levels:")
	for _, level := range id.Levels() {
		fmt.Fprintf(c.out, "  %d: %s\n", level.Int(), level.String())
	}
	levelInput, ok := c.ask("Enter security level (0-3): ")
	if !ok {
		return
	}
	levelValue, err := strconv.Atoi(levelInput)
	if err != nil {
		fmt.Fprintln(c.out, "Error: Please enter a valid number")
		return
	}
	objectID, err := c.mediator.RequestCreate(ctx, c.current.ID, name, content, id.SecurityLevel(levelValue))
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "Success: Object created with ID %s\n", objectID.String())
}

func (c *Console) handleListObjects(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	summaries, err := c.mediator.ListAccessible(ctx, c.current.ID)
	if err != nil {
		c.printError(err)
		return
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, "No accessible objects found")
		return
	}
	c.printSummaries(summaries)
	fmt.Fprintf(c.out, "\nTotal objects: %d\n", len(summaries))
}

func (c *Console) handleReadObject(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	objectID, ok := c.askObjectID("Enter object ID: ")
	if !ok {
		return
	}
	result, err := c.mediator.RequestRead(ctx, c.current.ID, objectID)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "\nObject: %s\n", result.Name)
	fmt.Fprintf(c.out, "Content: %s\n", result.Content)
}

func (c *Console) handleWriteObject(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	objectID, ok := c.askObjectID("Enter object ID: ")
	if !ok {
		return
	}
	content, ok := c.ask("Enter new content: ")
	if !ok {
		return
	}
	if err := c.mediator.RequestWrite(ctx, c.current.ID, objectID, content); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "Success: Object updated")
}

func (c *Console) handleDeleteObject(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	objectID, ok := c.askObjectID("Enter object ID to delete: ")
	if !ok {
		return
	}
	confirm, ok := c.ask("Are you sure you want to delete this object? (yes/no): ")
	if !ok {
		return
	}
	if strings.ToLower(confirm) != "yes" {
		fmt.Fprintln(c.out, "Deletion cancelled")
		return
	}
	if err := c.mediator.RequestDelete(ctx, c.current.ID, objectID); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "Success: Object deleted successfully")
}

func (c *Console) handleSearchObjects(ctx context.Context) {
	if !c.requireLogin() {
		return
	}
	term, ok := c.ask("Enter search term: ")
	if !ok {
		return
	}
	summaries, err := c.directory.Search(ctx, c.current.ID, term)
	if err != nil {
		c.printError(err)
		return
	}
	if len(summaries) == 0 {
		fmt.Fprintln(c.out, "No matching objects found")
		return
	}
	c.printSummaries(summaries)
	fmt.Fprintf(c.out, "\nFound %d matching objects\n", len(summaries))
}

func (c *Console) askObjectID(prompt string) (id.ObjectID, bool) {
	input, ok := c.ask(prompt)
	if !ok {
		return id.ObjectID{}, false
	}
	objectID, err := id.ParseObjectID(input)
	if err != nil {
		fmt.Fprintln(c.out, "Error: Please enter a valid object ID")
		return id.ObjectID{}, false
	}
	return objectID, true
}

func (c *Console) printSummaries(summaries []domain.Summary) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tSecurity Level\tOwner ID")
	for _, summary := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			summary.ID.String(),
			summary.Name,
			summary.SecurityLevel.String(),
			summary.OwnerID.String(),
		)
	}
	w.Flush()
}
