package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := LoginEvent{
		Username: "maria@example.com",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"kickshop",        // appname
			sqlmock.AnyArg(),  // procid
			"login",           // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveCheckEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := CheckEvent{
		Subject:  "maria@example.com",
		RoleID:   2,
		ClientIP: "10.0.0.1",
		Path:     "/productos/{id}",
		Method:   "DELETE",
		Allowed:  false,
	}

	mock.ExpectExec(`INSERT INTO audit_messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"kickshop",
			sqlmock.AnyArg(),
			"check",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(event); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNewStoreWithoutURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("expected nil store when AUDIT_DATABASE_URL is not set")
	}
}
