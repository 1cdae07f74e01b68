package reporter

import (
	"context"
	"fmt"
)

// CheckConnections probes every configured collaborator and prints a
// per-service outcome. It returns an error when a required probe fails,
// so the command exits non-zero.
func (r *Reporter) CheckConnections(ctx context.Context) error {
	fmt.Println("🔍 Running connection tests...")
	fmt.Println()

	fmt.Println("1. Testing chatlog API connection...")
	if !r.client.HealthCheck(ctx) {
		fmt.Println("❌ Chatlog API connection failed")
		return fmt.Errorf("chatlog API is not reachable")
	}
	fmt.Println("✅ Chatlog API connection successful")

	rooms, err := r.client.GetChatRooms(ctx, "", 5)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Failed to list chat rooms")
	} else {
		fmt.Printf("📱 Found %d chat rooms\n", len(rooms))
		for i, room := range rooms {
			if i >= 3 {
				break
			}
			name := room.NickName
			if name == "" {
				name = room.Name
			}
			fmt.Printf("  - %s\n", name)
		}
	}
	fmt.Println()

	fmt.Printf("2. Testing AI service (%s)...\n", r.summarizer.Name())
	if r.summarizer.TestConnection(ctx) {
		fmt.Printf("✅ %s connection successful\n", r.summarizer.Name())
		if r.cfg.ProxyEnabled {
			fmt.Printf("🌐 Using proxy: %s\n", r.cfg.ProxyHTTP)
		}
	} else {
		fmt.Printf("❌ %s connection failed\n", r.summarizer.Name())
		if r.summarizer.Name() != "local" {
			return fmt.Errorf("%s API is not reachable", r.summarizer.Name())
		}
	}
	fmt.Println()

	if siyuan := r.notifier.Siyuan(); siyuan != nil {
		fmt.Println("3. Testing SiYuan Notes connection...")
		if siyuan.TestConnection(ctx) {
			fmt.Println("✅ SiYuan Notes connection successful")
		} else {
			fmt.Println("❌ SiYuan Notes connection failed")
		}
	} else {
		fmt.Println("3. SiYuan Notes integration disabled")
	}
	fmt.Println()

	if r.notifier.EmailConfigured() {
		fmt.Println("4. Email notification configured ✅")
		fmt.Printf("   From: %s\n", r.cfg.FromEmail)
		fmt.Printf("   To: %s\n", r.cfg.NotificationEmail)
	} else {
		fmt.Println("4. Email notification not configured")
	}

	fmt.Println("\n🎉 All tests completed!")
	return nil
}
