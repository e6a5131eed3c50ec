package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Post Methods
// -----------------------------------------------------------------------------

// UpsertJobPost inserts a canonical listing. Listings whose id is already
// stored are left untouched; the bool reports whether a new row was written.
func (db *DB) UpsertJobPost(ctx context.Context, input *JobPostInput) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`INSERT INTO job_posts (id, title, description, job_type, experience_level,
		                        duration, rate, proposal_count, payment_verified,
		                        country, ratings, spent, skills, category)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT (id) DO NOTHING`,
		input.ID, input.Title, input.Description, input.JobType, input.ExperienceLevel,
		input.Duration, input.Rate, input.ProposalCount, input.PaymentVerified,
		input.Country, input.Ratings, input.Spent, input.Skills, input.Category,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert job post %s: %w", input.ID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetJobPost retrieves a listing by its id, nil when not stored
func (db *DB) GetJobPost(ctx context.Context, id string) (*JobPost, error) {
	var p JobPost

	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, job_type, experience_level, duration, rate,
		        proposal_count, payment_verified, country, ratings, spent, skills,
		        category, created_at
		 FROM job_posts WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Title, &p.Description, &p.JobType, &p.ExperienceLevel,
		&p.Duration, &p.Rate, &p.ProposalCount, &p.PaymentVerified, &p.Country,
		&p.Ratings, &p.Spent, &p.Skills, &p.Category, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job post: %w", err)
	}

	return &p, nil
}

// ListJobPosts retrieves stored listings newest first, narrowed by filter
func (db *DB) ListJobPosts(ctx context.Context, filter JobPostFilter) ([]JobPost, error) {
	query := `SELECT id, title, description, job_type, experience_level, duration, rate,
	                 proposal_count, payment_verified, country, ratings, spent, skills,
	                 category, created_at
	          FROM job_posts
	          WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.JobType != nil {
		query += fmt.Sprintf(" AND job_type = $%d", argPos)
		args = append(args, *filter.JobType)
		argPos++
	}

	if filter.PaymentVerified != nil {
		query += fmt.Sprintf(" AND payment_verified = $%d", argPos)
		args = append(args, *filter.PaymentVerified)
		argPos++
	}

	if filter.Country != nil {
		query += fmt.Sprintf(" AND country = $%d", argPos)
		args = append(args, *filter.Country)
		argPos++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filter.Limit)
		argPos++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filter.Offset)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job posts: %w", err)
	}
	defer rows.Close()

	var posts []JobPost
	for rows.Next() {
		var p JobPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.JobType,
			&p.ExperienceLevel, &p.Duration, &p.Rate, &p.ProposalCount,
			&p.PaymentVerified, &p.Country, &p.Ratings, &p.Spent, &p.Skills,
			&p.Category, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// UpdateJobPost applies the non-nil fields of update to a stored listing.
// Returns false when no listing with the id exists; a call with nothing to
// update is a no-op.
func (db *DB) UpdateJobPost(ctx context.Context, id string, update JobPostUpdate) (bool, error) {
	setClauses := []string{}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if update.Title != nil {
		addSet("title", *update.Title)
	}
	if update.Description != nil {
		addSet("description", *update.Description)
	}
	if update.ExperienceLevel != nil {
		addSet("experience_level", *update.ExperienceLevel)
	}
	if update.Duration != nil {
		addSet("duration", *update.Duration)
	}
	if update.Rate != nil {
		addSet("rate", *update.Rate)
	}
	if update.ProposalCount != nil {
		addSet("proposal_count", *update.ProposalCount)
	}
	if update.Country != nil {
		addSet("country", *update.Country)
	}
	if update.Skills != nil {
		addSet("skills", *update.Skills)
	}
	if update.Category != nil {
		addSet("category", *update.Category)
	}

	if len(setClauses) == 0 {
		return false, nil
	}

	query := fmt.Sprintf("UPDATE job_posts SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argPos)
	args = append(args, id)

	tag, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update job post %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteJobPost removes a listing, reporting whether it existed
func (db *DB) DeleteJobPost(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job post %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountJobPosts returns the number of stored listings
func (db *DB) CountJobPosts(ctx context.Context) (int, error) {
	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count job posts: %w", err)
	}
	return count, nil
}
