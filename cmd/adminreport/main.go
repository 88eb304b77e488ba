// Command adminreport prints a summary of registered accounts: total user
// count, admin emails, and any user whose email also belongs to an admin.
// When a Stripe key is configured it also checks that every stored billing
// customer still exists at Stripe. It is read-only and safe to run against
// a production database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/hanifn/tagihin/internal"
	"github.com/hanifn/tagihin/internal/billing"
	"github.com/hanifn/tagihin/internal/domain"
	"github.com/hanifn/tagihin/internal/postgres"
	"github.com/hanifn/tagihin/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pageSize = 100

func run() error {
	ctx := context.Background()

	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	users := service.NewUserService(postgres.NewUserStore(pool))
	admins := service.NewAdminService(postgres.NewAdminStore(pool))
	subscriptions := postgres.NewSubscriptionStore(pool)

	var provider *billing.StripeProvider
	if cfg.Stripe.SecretKey != "" && cfg.Stripe.SecretKey != "sk_test_your_key_here" {
		provider, err = billing.NewStripeProvider(billing.StripeConfig{APIKey: cfg.Stripe.SecretKey})
		if err != nil {
			return fmt.Errorf("failed to initialize billing provider: %w", err)
		}
	}

	adminEmails, err := admins.ListAdminEmails(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	adminSet := make(map[string]bool, len(adminEmails))
	for _, email := range adminEmails {
		adminSet[strings.ToLower(email)] = true
	}

	w := os.Stdout
	fmt.Fprintf(w, "Admins (%d):\n", len(adminEmails))
	for _, email := range adminEmails {
		fmt.Fprintf(w, "  %s\n", email)
	}

	var total int
	var overlap []string
	var missingCustomers []string
	for offset := int32(0); ; offset += pageSize {
		page, err := users.ListUsers(ctx, pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		total += len(page)
		for _, u := range page {
			if adminSet[strings.ToLower(u.Email)] {
				overlap = append(overlap, u.Email)
			}
			if provider != nil {
				missing, err := missingBillingCustomer(ctx, subscriptions, provider, u.ID)
				if err != nil {
					return err
				}
				if missing != "" {
					missingCustomers = append(missingCustomers, fmt.Sprintf("%s (%s)", u.Email, missing))
				}
			}
		}
		if len(page) < pageSize {
			break
		}
	}

	fmt.Fprintf(w, "\nUsers: %d\n", total)
	if len(overlap) > 0 {
		fmt.Fprintf(w, "\nEmails registered as both user and admin (%d):\n", len(overlap))
		for _, email := range overlap {
			fmt.Fprintf(w, "  %s\n", email)
		}
	}

	if provider != nil && len(missingCustomers) > 0 {
		fmt.Fprintf(w, "\nBilling customers missing at Stripe (%d):\n", len(missingCustomers))
		for _, entry := range missingCustomers {
			fmt.Fprintf(w, "  %s\n", entry)
		}
	}

	return nil
}

// missingBillingCustomer returns the user's stored customer ID when it no
// longer exists at Stripe, or "" when there is nothing to report.
func missingBillingCustomer(ctx context.Context, subs domain.SubscriptionStore, provider billing.Provider, userID uuid.UUID) (string, error) {
	sub, err := subs.GetSubscriptionByUser(ctx, userID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up subscription: %w", err)
	}
	if sub.StripeCustomerID == "" {
		return "", nil
	}

	if _, err := provider.GetCustomer(ctx, sub.StripeCustomerID); err != nil {
		if errors.Is(err, billing.ErrCustomerNotFound) {
			return sub.StripeCustomerID, nil
		}
		return "", fmt.Errorf("failed to fetch billing customer %s: %w", sub.StripeCustomerID, err)
	}
	return "", nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
