package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort      = "8082"
	defaultAPIKey    = "local-anon-key"
	defaultLatencyMs = "250"
	defaultCount     = "25"
)

// Registration mirrors a row of the registrations table as PostgREST returns it.
type Registration struct {
	ID              int     `json:"id"`
	FullName        string  `json:"full_name"`
	MobileNumber    string  `json:"mobile_number"`
	Address         *string `json:"address"`
	CustomerID      *string `json:"customer_id"`
	Ward            *string `json:"ward"`
	CategoryDetails *string `json:"category_details"`
	Category        *string `json:"category"`
	Status          string  `json:"status"`
	CreatedAt       *string `json:"created_at"`
}

// ErrorResponse matches the PostgREST error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

var (
	apiKey    = getEnv("API_KEY", defaultAPIKey)
	latencyMs = getEnvInt("LATENCY_MS", defaultLatencyMs)
	count     = getEnvInt("REGISTRATION_COUNT", defaultCount)
	// FAIL_STATUS makes every list request answer with that status, to
	// exercise the admin page's error notice.
	failStatus = getEnvInt("FAIL_STATUS", "0")
)

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/rest/v1/", handleRoot)
	http.HandleFunc("/rest/v1/registrations", handleRegistrations)

	log.Printf("🗄️  Mock PostgREST starting on port %s", port)
	log.Printf("📝 API Key: %s", apiKey)
	log.Printf("⏱️  Simulated latency: %dms, %d registrations", latencyMs, count)
	if failStatus != 0 {
		log.Printf("💥 Failing list requests with status %d", failStatus)
	}

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if !authorized(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"service": "postgrest-mock",
		"version": "1.0.0",
	})
}

func handleRegistrations(w http.ResponseWriter, r *http.Request) {
	time.Sleep(time.Duration(latencyMs) * time.Millisecond)

	log.Printf("📥 Incoming request: %s %s?%s from %s", r.Method, r.URL.Path, r.URL.RawQuery, r.RemoteAddr)

	if r.Method != http.MethodGet {
		sendError(w, "PGRST105", "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !authorized(w, r) {
		return
	}
	if failStatus != 0 {
		sendError(w, "PGRST000", "Simulated upstream failure", failStatus)
		return
	}

	rows := make([]Registration, 0, count)
	for i := count; i >= 1; i-- {
		rows = append(rows, generateRegistration(i))
	}
	if !strings.Contains(r.URL.Query().Get("order"), ".desc") {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(rows)

	log.Printf("✅ Returned %d registrations", len(rows))
}

func authorized(w http.ResponseWriter, r *http.Request) bool {
	key := r.Header.Get("apikey")
	if key == "" {
		sendError(w, "PGRST301", "Missing apikey header", http.StatusUnauthorized)
		return false
	}
	if key != apiKey || r.Header.Get("Authorization") != "Bearer "+apiKey {
		sendError(w, "PGRST301", "Invalid API key", http.StatusUnauthorized)
		return false
	}
	return true
}

// generateRegistration derives a stable row from its id. Some optional
// columns are left null so the page's fallbacks show up.
func generateRegistration(id int) Registration {
	hash := sha256.Sum256([]byte(strconv.Itoa(id)))
	h := int(hash[0])

	firstNames := []string{"Asha", "Meena", "Ravi", "Kiran", "Lakshmi", "Suresh", "Priya", "Arjun", "Divya", "Mohan"}
	lastNames := []string{"Rao", "Devi", "Kumar", "Reddy", "Naidu", "Sharma", "Iyer", "Patel", "Menon", "Das"}
	categories := []string{"Tailoring", "Beautician", "Electrician", "Plumbing", "Catering", "Driving"}
	wards := []string{"Ward 1", "Ward 4", "Ward 7", "Ward 12", "Ward 15"}
	statuses := []string{"pending", "pending", "approved", "rejected"}

	reg := Registration{
		ID:           id,
		FullName:     fmt.Sprintf("%s %s", firstNames[h%len(firstNames)], lastNames[(h*3)%len(lastNames)]),
		MobileNumber: fmt.Sprintf("9%09d", int(hash[1])<<16|int(hash[2])<<8|int(hash[3])),
		Status:       statuses[h%len(statuses)],
	}

	if h%5 != 0 {
		addr := fmt.Sprintf("%d MG Road, Hyderabad", 10+h%90)
		reg.Address = &addr
	}
	if h%3 != 0 {
		cid := fmt.Sprintf("CUST-%04d", 1000+id)
		reg.CustomerID = &cid
	}
	ward := wards[(h*2)%len(wards)]
	reg.Ward = &ward

	category := categories[h%len(categories)]
	switch h % 4 {
	case 0:
		details := category + " (advanced)"
		reg.CategoryDetails = &details
	case 1, 2:
		reg.Category = &category
	}

	if h%11 != 0 {
		created := time.Now().UTC().Add(-time.Duration(id) * 26 * time.Hour).Format(time.RFC3339)
		reg.CreatedAt = &created
	}
	return reg
}

func sendError(w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	})
	log.Printf("❌ Error response: %d - %s", status, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
