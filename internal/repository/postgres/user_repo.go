package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/roomie/internal/domain"
)

const userColumns = `id, email, name, password_hash, gender, photo_url, bio, age, occupation, hostel,
	move_in_date, quiz_answers, quiz_completed, quiz_completed_at,
	this_or_that, this_or_that_completed, this_or_that_completed_at,
	current_mood, created_at, updated_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET name = $1, gender = $2, photo_url = $3, bio = $4, age = $5,
			occupation = $6, hostel = $7, move_in_date = $8, updated_at = $9
		WHERE id = $10`
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		user.Name, user.Gender, user.PhotoURL, user.Bio, user.Age,
		user.Occupation, user.Hostel, user.MoveInDate, user.UpdatedAt, user.ID,
	)
	return err
}

func (r *UserRepo) SaveQuiz(ctx context.Context, userID uuid.UUID, kind domain.QuizKind, answers domain.Answers, at time.Time) error {
	query := `
		UPDATE users SET quiz_answers = $1, quiz_completed = TRUE, quiz_completed_at = $2, updated_at = $2
		WHERE id = $3`
	if kind == domain.QuizThisOrThat {
		query = `
			UPDATE users SET this_or_that = $1, this_or_that_completed = TRUE, this_or_that_completed_at = $2, updated_at = $2
			WHERE id = $3`
	}
	_, err := conn(ctx, r.pool).Exec(ctx, query, answers, at, userID)
	return err
}

func (r *UserRepo) SetMood(ctx context.Context, userID uuid.UUID, mood string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `UPDATE users SET current_mood = $1 WHERE id = $2`, mood, userID)
	return err
}

func (r *UserRepo) ListQuizTakers(ctx context.Context, kind domain.QuizKind) ([]domain.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE quiz_completed ORDER BY created_at"
	if kind == domain.QuizThisOrThat {
		query = "SELECT " + userColumns + " FROM users WHERE this_or_that_completed ORDER BY created_at"
	}

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUserRow(conn(ctx, r.pool).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Gender, &u.PhotoURL, &u.Bio, &u.Age,
		&u.Occupation, &u.Hostel, &u.MoveInDate,
		&u.QuizAnswers, &u.QuizCompleted, &u.QuizCompletedAt,
		&u.ThisOrThat, &u.ThisOrThatCompleted, &u.ThisOrThatCompletedAt,
		&u.CurrentMood, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
