package console

import (
	"context"
	"fmt"
)

func (c *Console) handleRegister(ctx context.Context) {
	username, ok := c.ask("Enter username: ")
	if !ok {
		return
	}
	password, ok := c.ask("Enter password: ")
	if !ok {
		return
	}
	user, err := c.auth.Register(ctx, username, password)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "Registration successful. Security level: %s\n", user.SecurityLevel.String())
}

func (c *Console) handleLogin(ctx context.Context) {
	if c.current != nil {
		fmt.Fprintln(c.out, "You are already logged in. Please logout first.")
		return
	}
	username, ok := c.ask("Enter username: ")
	if !ok {
		return
	}
	password, ok := c.ask("Enter password: ")
	if !ok {
		return
	}
	_, user, err := c.auth.Login(ctx, username, password)
	if err != nil {
		c.printError(err)
		return
	}
	c.current = user
	fmt.Fprintf(c.out, "Login successful. Welcome %s!\n", user.Username)
	fmt.Fprintf(c.out, "Security Level: %s\n", user.SecurityLevel.String())
	if user.IsSuperAdmin {
		fmt.Fprintln(c.out, "Privileges: Super Administrator")
	}
}

func (c *Console) handleLogout(ctx context.Context) {
	if c.current == nil {
		fmt.Fprintln(c.out, "No user is currently logged in.")
		return
	}
	if err := c.auth.Logout(ctx, c.current.ID); err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintf(c.out, "User '%s' logged out.\n", c.current.Username)
	c.current = nil
}

func (c *Console) handleWhoami(ctx context.Context) {
	if c.current == nil {
		fmt.Fprintln(c.out, "Not logged in")
		return
	}
	info, err := c.admin.GetUserInfo(ctx, c.current.ID, c.current.ID)
	if err != nil {
		c.printError(err)
		return
	}
	fmt.Fprintln(c.out, "\nCurrent User Information:")
	fmt.Fprintf(c.out, "Username: %s\n", info.Username)
	fmt.Fprintf(c.out, "Security Level: %s\n", info.SecurityLevel.String())
	fmt.Fprintf(c.out, "Super Admin: %t\n", info.IsSuperAdmin)
	fmt.Fprintf(c.out, "Active: %t\n", info.IsActive)
	fmt.Fprintf(c.out, "User ID: %s\n", info.ID.String())
	fmt.Fprintf(c.out, "Registered: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
}
