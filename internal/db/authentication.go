package db

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/agorahq/agora/internal/models"
	"gitlab.com/agorahq/agora/internal/utils"
)

// UserH is a handle to one authenticated user. The poll engine uses its id
// as the voter identity.
type UserH struct {
	id       uint32
	sharedDB *SharedDB
}

func (h UserH) ID() uint32 {
	return h.id
}

func (h UserH) Read(ctx context.Context) (*models.User, error) {
	user := &models.User{}
	sql, args, _ := psql.
		Select("id", "name", "email").
		From("users").
		Where(sq.Eq{"id": h.id}).
		ToSql()
	err := pgxscan.Get(ctx, h.sharedDB.db, user, sql, args...)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (sdb *SharedDB) CreateUser(ctx context.Context, user *models.User, passwd string) (*UserH, error) {
	if !utils.ValidateEmail(user.Email) {
		return nil, ErrInvalidFormat
	}
	if !validatePasswd(passwd, []string{user.Email, user.Name}) {
		return nil, ErrWeakPasswd
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), sdb.bcryptCost)
	if err != nil {
		return nil, err
	}

	err = execTx(ctx, sdb.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, _ := psql.
			Insert("users").
			Columns("name", "email", "passwd_hash").
			Values(user.Name, user.Email, hash).
			Suffix("RETURNING id").
			ToSql()

		row := tx.QueryRow(ctx, sql, args...)
		err := row.Scan(&user.ID)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key" {
			return ErrEmailAlreadyUsed
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &UserH{id: user.ID, sharedDB: sdb}, nil
}

func (sdb *SharedDB) Login(ctx context.Context, email string, passwd string) (token string, err error) {
	sql, args, _ := psql.
		Select("id", "passwd_hash").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()

	var data struct {
		ID         uint32
		PasswdHash string
	}
	err = pgxscan.Get(ctx, sdb.db, &data, sql, args...)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(data.PasswdHash), []byte(passwd)); err != nil {
		return "", err
	}

	token = utils.GenToken(TokenLen)
	sql, args, _ = psql.
		Insert("tokens").
		Columns("user_id", "token").
		Values(data.ID, token).
		ToSql()

	_, err = sdb.db.Exec(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (sdb *SharedDB) Logout(ctx context.Context, token string) error {
	sql, args, _ := psql.
		Delete("tokens").
		Where(sq.Eq{"token": token}).
		ToSql()
	_, err := sdb.db.Exec(ctx, sql, args...)
	return err
}

// GetUserH resolves a session token to a user handle.
func (sdb *SharedDB) GetUserH(ctx context.Context, token string) (*UserH, error) {
	sql, args, _ := psql.
		Select("user_id").
		From("tokens").
		Where(sq.Eq{"token": token}).
		ToSql()

	uH := &UserH{sharedDB: sdb}
	row := sdb.db.QueryRow(ctx, sql, args...)
	if err := row.Scan(&uH.id); err != nil {
		return nil, err
	}
	return uH, nil
}

func validatePasswd(passwd string, context []string) bool {
	if len(passwd) < 8 {
		return false
	}
	for _, c := range context {
		if c != "" && strings.EqualFold(passwd, c) {
			return false
		}
	}
	return true
}
