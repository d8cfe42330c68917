// Athena server - exposes a health/debug HTTP surface over the
// inventory and conversation stores. The operator chat loop itself is
// a separate concern (no terminal REPL ships here); this binary's job
// is process wiring and liveness.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/athena/pkg/apperrors"
	"github.com/codeready-toolchain/athena/pkg/conversation"
	"github.com/codeready-toolchain/athena/pkg/database"
	"github.com/codeready-toolchain/athena/pkg/inventory"
	"github.com/codeready-toolchain/athena/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// checkLLMFallbackGate enforces spec.md §4.6's compliance gate: LLM
// fallback may not run unless it has been explicitly acknowledged, on
// top of being enabled.
func checkLLMFallbackGate() error {
	if !getEnvBool("ENABLE_LLM_FALLBACK", false) {
		return nil
	}
	if !getEnvBool("LLM_COMPLIANCE_ACKNOWLEDGED", false) {
		return apperrors.NewConfigurationError(
			"ENABLE_LLM_FALLBACK",
			"set LLM_COMPLIANCE_ACKNOWLEDGED=true after reviewing what data is sent to the LLM provider",
			apperrors.ErrGatedFeature,
		)
	}
	return nil
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: Could not load %s file: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	ginMode := getEnv("GIN_MODE", "debug")
	gin.SetMode(ginMode)

	log.Printf("Starting %s", version.Full())
	log.Printf("HTTP Port: %s", httpPort)

	if err := checkLLMFallbackGate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx := context.Background()

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("connected to database")

	inventoryStore := inventory.NewStore(dbClient)
	conversationStore := conversation.NewStore(dbClient).WithBudget(
		getEnvInt("CONVERSATION_TOKEN_LIMIT", conversation.DefaultTokenLimit),
		getEnvFloat("CONVERSATION_COMPACT_THRESHOLD", conversation.DefaultCompactThreshold),
	)

	log.Println("stores initialized")

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbHealth, err := database.Health(reqCtx, dbClient.DB())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbHealth,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  version.Full(),
			"database": dbHealth,
		})
	})

	router.GET("/debug/stats", func(c *gin.Context) {
		reqCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		stats, err := inventoryStore.GetStats(reqCtx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		conv, err := conversationStore.Current(reqCtx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"inventory": gin.H{
				"total_hosts":         stats.TotalHosts,
				"by_environment":      stats.ByEnvironment,
				"total_relations":     stats.TotalRelations,
				"validated_relations": stats.ValidatedRelations,
				"cached_scans":        stats.CachedScans,
			},
			"conversation": gin.H{
				"id":          conv.ID,
				"token_count": conv.TokenCount,
				"compacted":   conv.Compacted,
			},
			"llm_fallback_enabled": getEnvBool("ENABLE_LLM_FALLBACK", false),
		})
	})

	log.Printf("HTTP server listening on :%s", httpPort)
	log.Printf("Health check available at: http://localhost:%s/health", httpPort)
	if err := router.Run(":" + httpPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
