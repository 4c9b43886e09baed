package services

import "log"

// PopulateTestUsers registers sample accounts in the mock identity
// provider so the frontend can log in out of the box.
func PopulateTestUsers(auth *MockAuthService) {
	users := []struct {
		email string
		name  string
	}{
		{"alice@example.com", "Alice Johnson"},
		{"bob@example.com", "Bob Smith"},
		{"carol@example.com", "Carol Davis"},
	}

	for _, user := range users {
		if _, err := auth.SignUp(user.email, "password123", user.name); err != nil {
			log.Printf("Failed to seed user %s: %v", user.email, err)
		}
	}
}
