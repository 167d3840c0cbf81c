package redis

import (
	"fmt"

	"github.com/quizforge/mathduel/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "mathduel"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// summaryKey returns the Redis key for a GameSummary
func summaryKey(sessionID model.SessionID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, sessionID)
}
