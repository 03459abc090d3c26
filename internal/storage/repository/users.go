package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/storefront/internal/common"
	"github.com/magabrotheeeer/storefront/internal/models"
)

const userColumns = `id, email, name, password_hash, role, reset_code, reset_code_expires_at,
	reset_grant_hash, reset_grant_expires_at, payment_customer_id, last_login_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                                     models.User
		resetCode, grantHash, paymentCustomer sql.NullString
		codeExpires, grantExpires, lastLogin  sql.NullTime
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&resetCode, &codeExpires, &grantHash, &grantExpires, &paymentCustomer,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ResetCode = nullString(resetCode)
	u.ResetCodeExpiresAt = nullTime(codeExpires)
	u.ResetGrantHash = nullString(grantHash)
	u.ResetGrantExpiresAt = nullTime(grantExpires)
	u.PaymentCustomerID = nullString(paymentCustomer)
	u.LastLoginAt = nullTime(lastLogin)
	return &u, nil
}

// CreateUser сохраняет нового пользователя и возвращает запись с присвоенным ID.
// Повторный email возвращает common.ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if user.Role == "" {
		user.Role = models.RoleUser
	}
	query := `INSERT INTO users (email, name, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// UpdateLastLogin фиксирует время последнего входа.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const op = "storage.UpdateLastLogin"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`, id, at)
	return affectedOne(op, res, err)
}

// SetResetCode сохраняет код сброса и срок его действия одним обновлением,
// перезаписывая ранее выданный код.
func (s *Storage) SetResetCode(ctx context.Context, id, code string, expiresAt time.Time) error {
	const op = "storage.SetResetCode"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `UPDATE users
		SET reset_code = $2, reset_code_expires_at = $3, updated_at = now()
		WHERE id = $1`, id, code, expiresAt)
	return affectedOne(op, res, err)
}

// ConsumeResetCode гасит код сброса и выдаёт хэш разрешения на смену пароля.
// Обновление условное, поэтому из двух параллельных проверок одного кода
// успешной окажется только одна: вторая получит false. Просроченный на момент now
// код не гасится.
func (s *Storage) ConsumeResetCode(ctx context.Context, id, code, grantHash string, now, grantExpiresAt time.Time) (bool, error) {
	const op = "storage.ConsumeResetCode"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `UPDATE users
		SET reset_code = NULL, reset_code_expires_at = NULL,
			reset_grant_hash = $3, reset_grant_expires_at = $4, updated_at = now()
		WHERE id = $1 AND reset_code = $2 AND reset_code_expires_at >= $5`,
		id, code, grantHash, grantExpiresAt, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// ResetPassword меняет хэш пароля и гасит разрешение на сброс в одном обновлении.
// Возвращает false, если разрешение отсутствует, не совпадает или истекло.
func (s *Storage) ResetPassword(ctx context.Context, id, grantHash, passwordHash string, now time.Time) (bool, error) {
	const op = "storage.ResetPassword"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `UPDATE users
		SET password_hash = $3, reset_grant_hash = NULL, reset_grant_expires_at = NULL,
			reset_code = NULL, reset_code_expires_at = NULL, updated_at = now()
		WHERE id = $1 AND reset_grant_hash = $2 AND reset_grant_expires_at > $4`,
		id, grantHash, passwordHash, now)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// DeleteUser удаляет пользователя вместе с его корзиной.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return affectedOne(op, res, err)
}

// UpdateRole меняет роль пользователя и возвращает обновлённую запись.
func (s *Storage) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	const op = "storage.UpdateRole"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET role = $2, updated_at = now()
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return u, nil
}

// ListUsers возвращает пользователей в порядке регистрации.
// Пустая роль означает всех пользователей.
func (s *Storage) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	const op = "storage.ListUsers"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users
			  WHERE ($1 = '' OR role = $1)
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// SetPaymentCustomerID сохраняет идентификатор клиента у платёжного провайдера.
func (s *Storage) SetPaymentCustomerID(ctx context.Context, id, customerID string) error {
	const op = "storage.SetPaymentCustomerID"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx, `UPDATE users
		SET payment_customer_id = $2, updated_at = now() WHERE id = $1`, id, customerID)
	return affectedOne(op, res, err)
}

func affectedOne(op string, res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}
