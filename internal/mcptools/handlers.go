package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/userfront/userfront/client"
)

// UserHandler exposes the user operations as MCP tools.
type UserHandler struct {
	client *client.Client
}

// NewUserHandler creates a new user handler instance.
func NewUserHandler(c *client.Client) *UserHandler {
	return &UserHandler{client: c}
}

// RegisterTools registers all user tools with the MCP server.
func (uh *UserHandler) RegisterTools(s *server.MCPServer) error {
	listUsersTool := mcp.NewTool("list_users",
		mcp.WithDescription("List users held by the backend, optionally filtered by a search string"),
		mcp.WithString("query", mcp.Description("Case-insensitive substring matched against id, first name and last name")),
	)
	s.AddTool(listUsersTool, uh.handleListUsers)

	getUserTool := mcp.NewTool("get_user",
		mcp.WithDescription("Get a single user by identifier"),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The user's identifier")),
	)
	s.AddTool(getUserTool, uh.handleGetUser)

	createUserTool := mcp.NewTool("create_user",
		mcp.WithDescription("Create a user and return it with its server-assigned id"),
		mcp.WithString("first_name", mcp.Required(), mcp.Description("First name, non-empty")),
		mcp.WithString("last_name", mcp.Required(), mcp.Description("Last name, non-empty")),
	)
	s.AddTool(createUserTool, uh.handleCreateUser)

	return nil
}

func (uh *UserHandler) handleListUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")

	start := time.Now()
	users, err := uh.client.ListUsers(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("list_users failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list users: %v", err)), nil
	}

	users = client.FilterUsers(users, query)
	log.Debug().Int("count", len(users)).Str("query", query).Dur("elapsed", elapsed).Msg("list_users completed")
	return jsonResult(users)
}

func (uh *UserHandler) handleGetUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		log.Error().Err(err).Msg("user_id parameter validation failed")
		return mcp.NewToolResultError("user_id parameter is required"), nil
	}

	log.Debug().Str("user_id", userID).Msg("handling get_user request")

	start := time.Now()
	user, err := uh.client.GetUser(ctx, userID)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Dur("elapsed", elapsed).
			Msg("get_user failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get user %s: %v", userID, err)), nil
	}

	log.Debug().Str("user_id", user.ID).Dur("elapsed", elapsed).Msg("get_user completed")
	return jsonResult(user)
}

func (uh *UserHandler) handleCreateUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	first, err := request.RequireString("first_name")
	if err != nil {
		return mcp.NewToolResultError("first_name parameter is required"), nil
	}
	last, err := request.RequireString("last_name")
	if err != nil {
		return mcp.NewToolResultError("last_name parameter is required"), nil
	}
	nu := client.NewUser{FirstName: first, LastName: last}
	if err := client.ValidateNewUser(nu); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	start := time.Now()
	user, err := uh.client.CreateUser(ctx, nu)
	elapsed := time.Since(start)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("create_user failed")
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create user: %v", err)), nil
	}

	log.Info().Str("user_id", user.ID).Dur("elapsed", elapsed).Msg("create_user completed")
	return jsonResult(user)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
