package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizforge/mathduel/internal/api"
	"github.com/quizforge/mathduel/internal/factory"
	"github.com/quizforge/mathduel/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "mathduel-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mathduel")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Create application
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:            testutil.NopLogger(),
		AuthService:       app.AuthService,
		SessionController: app.SessionController,
		BotService:        app.BotService,
		Storage:           app.Storage,
		HubManager:        app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type authResponse struct {
	Player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	} `json:"player"`
	SessionToken string `json:"session_token"`
}

type gameStateResponse struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Config struct {
		DifficultyName string `json:"difficulty_name"`
		Mode           string `json:"mode"`
		QuestionLimit  int    `json:"question_limit"`
		StartingLives  int    `json:"starting_lives"`
	} `json:"config"`
	Contestants []struct {
		PlayerID   string `json:"player_id"`
		IsBot      bool   `json:"is_bot"`
		Score      int    `json:"score"`
		Lives      int    `json:"lives"`
		Eliminated bool   `json:"eliminated"`
	} `json:"contestants"`
	QuestionNumber int `json:"question_number"`
	Problem        *struct {
		Text  string `json:"text"`
		Level int    `json:"level"`
	} `json:"problem"`
	Answered []string `json:"answered"`
}

type gameSummaryResponse struct {
	SessionID   string         `json:"session_id"`
	FinalScores map[string]int `json:"final_scores"`
	Winner      *string        `json:"winner"`
	Questions   int            `json:"questions"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// solveProblem evaluates a single two-term question like "12 + 7"
func solveProblem(t *testing.T, text string) string {
	t.Helper()

	parts := strings.Fields(text)
	require.Len(t, parts, 3, "unexpected problem form: %q", text)

	a, err := strconv.Atoi(parts[0])
	require.NoError(t, err)
	b, err := strconv.Atoi(parts[2])
	require.NoError(t, err)

	switch parts[1] {
	case "+":
		return strconv.Itoa(a + b)
	case "-":
		return strconv.Itoa(a - b)
	case "×":
		return strconv.Itoa(a * b)
	case "÷":
		return strconv.Itoa(a / b)
	default:
		t.Fatalf("unexpected operator in %q", text)
		return ""
	}
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var authResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &authResp))
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var player struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
		IsGuest     bool   `json:"is_guest"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)
}

func TestCLI_RegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "register", "--name", "Alice", "--user", "alice", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)

	var registered authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &registered))
	assert.False(t, registered.Player.IsGuest)

	output, err = cli.run("player", "login", "--user", "alice", "--pass", "hunter22")
	require.NoError(t, err, "output: %s", output)

	var loggedIn authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &loggedIn))
	assert.Equal(t, registered.Player.ID, loggedIn.Player.ID)

	// Wrong password is rejected
	output, err = cli.run("player", "login", "--user", "alice", "--pass", "wrong")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "invalid username or password")
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))
	token := auth.SessionToken

	// Create a short solo game at easy difficulty
	output, err = cli.runWithToken(token, "game", "new", "--questions", "3", "--lives", "3")
	require.NoError(t, err, "output: %s", output)
	var game gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "setup", game.State)
	assert.Equal(t, 3, game.Config.QuestionLimit)
	require.Len(t, game.Contestants, 1)
	gameID := game.ID
	t.Logf("Created game: %s", gameID)

	// Start the game
	output, err = cli.runWithToken(token, "game", "start", gameID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "in_round", game.State)
	assert.Equal(t, 1, game.QuestionNumber)
	require.NotNil(t, game.Problem)

	// Answer all three questions correctly
	for turn := 0; turn < 3; turn++ {
		require.NotNil(t, game.Problem, "turn %d: no problem", turn)
		answer := solveProblem(t, game.Problem.Text)
		t.Logf("Turn %d: %s = %s", turn, game.Problem.Text, answer)

		output, err = cli.runWithToken(token, "game", "answer", gameID, answer)
		require.NoError(t, err, "turn %d answer: %s", turn, output)
		require.NoError(t, json.Unmarshal([]byte(output), &game))
	}

	assert.Equal(t, "game_over", game.State)
	assert.Equal(t, 3, game.Contestants[0].Score)
	assert.Equal(t, 3, game.Contestants[0].Lives)

	// Results name Alice as the winner
	output, err = cli.runWithToken(token, "game", "results", gameID)
	require.NoError(t, err, "output: %s", output)

	var summary gameSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, gameID, summary.SessionID)
	require.NotNil(t, summary.Winner)
	assert.Equal(t, auth.Player.ID, *summary.Winner)
	assert.Equal(t, 3, summary.FinalScores[auth.Player.ID])
	assert.Equal(t, 3, summary.Questions)
}

func TestCLI_VersusBot(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))
	token := auth.SessionToken

	output, err = cli.runWithToken(token, "game", "new", "--bots", "1")
	require.NoError(t, err, "output: %s", output)
	var game gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "versus_bot", game.Config.Mode)
	require.Len(t, game.Contestants, 2)

	var botID string
	for _, c := range game.Contestants {
		if c.IsBot {
			botID = c.PlayerID
		}
	}
	require.NotEmpty(t, botID, "expected a bot contestant")

	// The bot answers the opening question as soon as the game starts
	output, err = cli.runWithToken(token, "game", "start", game.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "in_round", game.State)
	assert.Contains(t, game.Answered, botID)
}

func TestCLI_GameAbandon(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)
	var alice authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &alice))

	output, err = cli.run("player", "guest", "--name", "Mallory")
	require.NoError(t, err)
	var mallory authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &mallory))

	output, err = cli.runWithToken(alice.SessionToken, "game", "new")
	require.NoError(t, err, "output: %s", output)
	var game gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &game))

	_, err = cli.runWithToken(alice.SessionToken, "game", "start", game.ID)
	require.NoError(t, err)

	// Outsiders cannot abandon someone else's game
	output, err = cli.runWithToken(mallory.SessionToken, "game", "abandon", game.ID)
	assert.Error(t, err, "outsider should not be able to abandon")
	assert.Contains(t, strings.ToLower(output), "not in this game")

	// The participant can
	output, err = cli.runWithToken(alice.SessionToken, "game", "abandon", game.ID)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Equal(t, "Game abandoned", msgResp.Message)

	output, err = cli.runWithToken(alice.SessionToken, "game", "show", game.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &game))
	assert.Equal(t, "abandoned", game.State)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "authentication required")

	// Get non-existent game
	output, err = cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err)
	var auth authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &auth))

	output, err = cli.runWithToken(auth.SessionToken, "game", "show", "game-missing")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}
