// Package seed populates the default rows the marketplace expects before it
// serves traffic: the standard delivery options and an admin account. It is
// idempotent and runs once at startup, after migrations.
package seed

import (
	"context"
	"fmt"

	"stroymarket/db"
)

// Store is the slice of the storage layer seeding needs.
type Store interface {
	GetDeliveryOptionByName(ctx context.Context, name string) (*db.DeliveryOption, error)
	CreateDeliveryOption(ctx context.Context, o *db.DeliveryOption) (*db.DeliveryOption, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	CreateUser(ctx context.Context, u *db.User) (*db.User, error)
}

var defaultDeliveryOptions = []db.DeliveryOption{
	{Name: "Самовывоз", Description: "Забрать со склада продавца", Price: 0, EstimatedDays: 0},
	{Name: "Курьерская доставка", Description: "Доставка по городу", Price: 500, EstimatedDays: 1},
	{Name: "Транспортная компания", Description: "Доставка по стране", Price: 2000, EstimatedDays: 5},
}

// Run inserts missing defaults. Existing rows are left alone, including
// options an operator deactivated: the lookup sees inactive rows too, so a
// restart never resurrects a soft-deleted default.
func Run(ctx context.Context, store Store) error {
	for i := range defaultDeliveryOptions {
		existing, err := store.GetDeliveryOptionByName(ctx, defaultDeliveryOptions[i].Name)
		if err != nil {
			return fmt.Errorf("looking up delivery option %q: %w", defaultDeliveryOptions[i].Name, err)
		}
		if existing != nil {
			continue
		}
		o := defaultDeliveryOptions[i]
		if _, err := store.CreateDeliveryOption(ctx, &o); err != nil {
			return fmt.Errorf("creating delivery option %q: %w", o.Name, err)
		}
	}

	admin, err := store.GetUserByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("looking up admin user: %w", err)
	}
	if admin == nil {
		_, err = store.CreateUser(ctx, &db.User{
			Username: "admin",
			Email:    "admin@stroymarket.local",
			Password: "!", // unusable hash, reset out of band
			FullName: "Администратор",
			UserType: "company",
		})
		if err != nil {
			return fmt.Errorf("creating admin user: %w", err)
		}
	}
	return nil
}
