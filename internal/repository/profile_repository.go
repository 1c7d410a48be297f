package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/unikiala/unikiala-api/internal/model"
)

// Profile mirrors the 'profiles' table.
type Profile struct {
	ID                 string
	Name               string
	Role               model.Role
	IsSubscribed       bool
	SubscriptionPlanID string
	SubscriptionExpiry *time.Time
	VerificationStatus model.VerificationStatus
	Category           string
}

type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Upsert inserts or replaces the profile of a user.
func (r *ProfileRepo) Upsert(ctx context.Context, p Profile) error {
	var expiry sql.NullTime
	if p.SubscriptionExpiry != nil {
		expiry = sql.NullTime{Time: p.SubscriptionExpiry.UTC(), Valid: true}
	}
	status := p.VerificationStatus
	if status == "" {
		status = model.VerificationUnsubmitted
	}
	role := p.Role
	if role == "" {
		role = model.RoleUser
	}
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO profiles (id, name, role, is_subscribed, subscription_plan_id, subscription_expiry, verification_status, category)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
	name=VALUES(name), role=VALUES(role), is_subscribed=VALUES(is_subscribed),
	subscription_plan_id=VALUES(subscription_plan_id), subscription_expiry=VALUES(subscription_expiry),
	verification_status=VALUES(verification_status), category=VALUES(category)`,
		p.ID, p.Name, string(role), p.IsSubscribed, nullString(p.SubscriptionPlanID), expiry, string(status), nullString(p.Category))
	return err
}

// Get fetches the profile of a user.
func (r *ProfileRepo) Get(ctx context.Context, id string) (Profile, error) {
	var (
		p        Profile
		role     string
		status   string
		plan     sql.NullString
		expiry   sql.NullTime
		category sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, `
SELECT id, name, role, is_subscribed, subscription_plan_id, subscription_expiry, verification_status, category
FROM profiles WHERE id=? LIMIT 1`, id).
		Scan(&p.ID, &p.Name, &role, &p.IsSubscribed, &plan, &expiry, &status, &category)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	p.Role = model.Role(role)
	p.VerificationStatus = model.VerificationStatus(status)
	p.SubscriptionPlanID = plan.String
	p.Category = category.String
	if expiry.Valid {
		t := expiry.Time
		p.SubscriptionExpiry = &t
	}
	return p, nil
}
