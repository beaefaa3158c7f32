package client

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// User mirrors the profile payload returned by the API.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role_project"`
	CreatedAt time.Time `json:"created_at"`
}

// Project mirrors the project payload returned by the API.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    *string   `json:"description"`
	CreatedBy      string    `json:"created_by"`
	AssignedTo     *string   `json:"assigned_to"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	AssignedToName *string   `json:"assigned_to_name"`
	CreatedByName  *string   `json:"created_by_name"`
}

type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type Registration struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type CreateProjectParams struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
}

type UpdateProjectParams struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
}

type Assignment struct {
	ID             string `json:"id"`
	AssignedTo     string `json:"assigned_to"`
	AssignedToName string `json:"assigned_to_name"`
}

// Login authenticates with email and password and stores the session
// token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	env, _, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeData(env, &session); err != nil {
		return nil, err
	}

	c.token = session.Token
	return &session, nil
}

// AdminLogin is Login against the admin endpoint; the account must be a
// superuser.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	env, _, err := c.do(ctx, http.MethodPost, "/admin/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var session Session
	if err := decodeData(env, &session); err != nil {
		return nil, err
	}

	c.token = session.Token
	return &session, nil
}

// Register creates a new client-role account.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (*Registration, error) {
	env, _, err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"nombre":   firstName,
		"apellido": lastName,
	})
	if err != nil {
		return nil, err
	}

	var reg Registration
	if err := decodeData(env, &reg); err != nil {
		return nil, err
	}

	return &reg, nil
}

// ListProjects returns the projects visible to the session's role.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}

	var projects []Project
	if err := decodeData(env, &projects); err != nil {
		return nil, err
	}

	return projects, nil
}

// GetProject fetches one project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/projects/"+id, nil)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProject creates a project owned by the session user.
func (c *Client) CreateProject(ctx context.Context, params CreateProjectParams) (*Project, error) {
	env, _, err := c.do(ctx, http.MethodPost, "/projects/create", params)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, id string, params UpdateProjectParams) (*Project, error) {
	env, _, err := c.do(ctx, http.MethodPut, "/projects/update/"+id, params)
	if err != nil {
		return nil, err
	}

	var p Project
	if err := decodeData(env, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/projects/delete/"+id, nil)
	return err
}

// AssignProject assigns a project to a designer.
func (c *Client) AssignProject(ctx context.Context, projectID, designerID string) (*Assignment, error) {
	env, _, err := c.do(ctx, http.MethodPatch, "/projects/assign/"+projectID, map[string]string{
		"assigned_to": designerID,
	})
	if err != nil {
		return nil, err
	}

	var a Assignment
	if err := decodeData(env, &a); err != nil {
		return nil, err
	}

	return &a, nil
}

// ListDesigners returns all designer users. Requires a project manager
// session.
func (c *Client) ListDesigners(ctx context.Context) ([]User, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/users/designers", nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeData(env, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// ListUsers returns every user profile. Requires a superuser session.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/admin/users", nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeData(env, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetUser fetches one user profile by ID. Requires a superuser session.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/admin/users/"+id, nil)
	if err != nil {
		return nil, err
	}

	var u User
	if err := decodeData(env, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// UpdateUserRole changes a user's role. Requires a superuser session.
func (c *Client) UpdateUserRole(ctx context.Context, id, role string) error {
	_, _, err := c.do(ctx, http.MethodPatch, "/admin/users/role/"+id, map[string]string{
		"newRole": role,
	})
	return err
}

// DeleteUser removes a user's profile and account. Requires a superuser
// session.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/admin/users/delete/"+id, nil)
	return err
}

// Health checks the server's health endpoint. The endpoint answers with
// a bare "OK", not the usual response envelope.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", resp.StatusCode)
	}
	return nil
}
