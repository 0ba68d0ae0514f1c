package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"ircd/config"
	"ircd/irc"
)

// StatusAPI is the HTTP sidecar exposing server state and Prometheus
// metrics, plus an authenticated message injection endpoint.
type StatusAPI struct {
	server *Server
	config *config.Config
	echo   *echo.Echo
}

// NewStatusAPI wires up the API routes.
func NewStatusAPI(server *Server, cfg *config.Config) *StatusAPI {
	api := &StatusAPI{
		server: server,
		config: cfg,
		echo:   echo.New(),
	}
	api.echo.HideBanner = true
	api.echo.HidePort = true

	api.echo.GET("/api/stats", api.handleStats)
	api.echo.GET("/api/channels", api.handleChannels)
	api.echo.GET("/api/users", api.handleUsers)
	api.echo.POST("/api/send", api.handleSend)
	api.echo.GET("/metrics", echo.WrapHandler(server.metrics.Handler()))

	return api
}

// Start starts the API server and blocks until it is closed.
func (a *StatusAPI) Start() error {
	return a.echo.Start(a.config.APIListenAddress())
}

// Stop shuts the API server down.
func (a *StatusAPI) Stop() error {
	log.Println("stopping status API")
	return a.echo.Close()
}

// Stats is the /api/stats response body.
type Stats struct {
	Host        string `json:"host"`
	Version     string `json:"version"`
	Created     string `json:"created"`
	UptimeSecs  int64  `json:"uptime_seconds"`
	Connections int    `json:"connections"`
	Registered  int    `json:"registered_users"`
	Channels    int    `json:"channels"`
}

func (a *StatusAPI) handleStats(c echo.Context) error {
	s := a.server

	s.mu.Lock()
	stats := Stats{
		Host:        a.config.Server.Host,
		Version:     serverVersion,
		Created:     a.config.Server.Created,
		UptimeSecs:  int64(time.Since(s.startTime).Seconds()),
		Connections: len(s.clients) + len(s.newClients),
		Registered:  len(s.clients),
		Channels:    len(s.channels),
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, stats)
}

// ChannelInfo is one entry of the /api/channels response.
type ChannelInfo struct {
	Name      string   `json:"name"`
	Topic     string   `json:"topic"`
	Modes     string   `json:"modes"`
	Operators []string `json:"operators"`
	Members   []string `json:"members"`
}

func (a *StatusAPI) handleChannels(c echo.Context) error {
	s := a.server

	s.mu.Lock()
	infos := make([]ChannelInfo, 0, len(s.channels))
	for _, ch := range s.channels {
		info := ChannelInfo{
			Name:  ch.Name,
			Topic: ch.Topic(),
			Modes: ch.ModeString(),
		}
		for name := range ch.Operators() {
			info.Operators = append(info.Operators, name)
		}
		for name := range ch.Members() {
			info.Members = append(info.Members, name)
		}
		sort.Strings(info.Operators)
		sort.Strings(info.Members)
		infos = append(infos, info)
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return c.JSON(http.StatusOK, infos)
}

// UserInfo is one entry of the /api/users response.
type UserInfo struct {
	Nick       string `json:"nick"`
	Username   string `json:"username"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Modes      string `json:"modes"`
	Identifier string `json:"identifier"`
}

func (a *StatusAPI) handleUsers(c echo.Context) error {
	s := a.server

	s.mu.Lock()
	infos := make([]UserInfo, 0, len(s.clients))
	for _, client := range s.clients {
		infos = append(infos, UserInfo{
			Nick:       client.User.Nick,
			Username:   client.User.Username,
			Host:       client.host,
			Port:       client.remotePort(),
			Modes:      client.User.ModeString(),
			Identifier: client.Identifier(),
		})
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Username < infos[j].Username })
	return c.JSON(http.StatusOK, infos)
}

// SendRequest is the /api/send request body. The message is delivered as
// a PRIVMSG from the given nick.
type SendRequest struct {
	From    string `json:"from"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

func (a *StatusAPI) handleSend(c echo.Context) error {
	if !a.authenticateRequest(c.Request()) {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}

	var req SendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Bad request")
	}
	if req.Target == "" || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Target and message are required")
	}
	if req.From == "" {
		req.From = "services"
	}

	s := a.server
	identifier := irc.FormatIdentifier(req.From, req.From, a.config.Server.Host)
	line := ":" + identifier + " PRIVMSG " + req.Target + " :" + req.Message

	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.channels[req.Target]; ok {
		for username := range ch.AllUsers() {
			if target, ok := s.clients[username]; ok {
				target.Send(line)
			}
		}
		return c.NoContent(http.StatusAccepted)
	}
	if target, ok := s.clients[req.Target]; ok {
		target.Send(line)
		return c.NoContent(http.StatusAccepted)
	}
	if target := s.clientFromNick(req.Target); target != nil {
		target.Send(line)
		return c.NoContent(http.StatusAccepted)
	}
	return echo.NewHTTPError(http.StatusNotFound, "No such nick or channel")
}

// authenticateRequest checks the bearer token against the configured
// list.
func (a *StatusAPI) authenticateRequest(req *http.Request) bool {
	authHeader := req.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	for _, validToken := range a.config.API.BearerTokens {
		if subtle.ConstantTimeCompare([]byte(token), []byte(validToken)) == 1 {
			return true
		}
	}
	return false
}
