package repository

import (
	"context"
	"log"
	"strconv"

	model "task-tracker.com/task-tracker/internal/models"
)

var userHeader = []string{"Code", "Name", "Email", "Password"}

type CSVUserRepository struct {
	file csvFile
}

func NewCSVUserRepository(path string) *CSVUserRepository {
	return &CSVUserRepository{file: csvFile{path: path, header: userHeader}}
}

func (r *CSVUserRepository) Init(ctx context.Context) error {
	return r.file.init(ctx)
}

// FindAll reads every user. Rows with the wrong number of fields are logged
// and skipped; a bad user code fails the whole read.
func (r *CSVUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.file.readRows(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		if len(row) != fieldsPerRow {
			log.Printf("invalid row format in %s: %v", r.file.path, row)
			continue
		}
		code, err := parseInt(r.file.path, "user code", row[0])
		if err != nil {
			return nil, err
		}
		users = append(users, model.User{
			Code:     code,
			Name:     row[1],
			Email:    row[2],
			Password: row[3],
		})
	}
	return users, nil
}

func (r *CSVUserRepository) FindByCode(ctx context.Context, code int) (*model.User, error) {
	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Code == code {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *CSVUserRepository) FindByEmailAndPassword(ctx context.Context, email, password string) (*model.User, error) {
	users, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (r *CSVUserRepository) Save(ctx context.Context, user model.User) error {
	return r.file.appendRow(ctx, []string{
		strconv.Itoa(user.Code),
		user.Name,
		user.Email,
		user.Password,
	})
}
