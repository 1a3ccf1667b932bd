package repository_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"membership-backend/database"
	"membership-backend/models"
	"membership-backend/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// openTestPool connects to TEST_DATABASE_URL and provisions the schema.
// Tests are skipped when the variable is not set.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.Open(ctx, database.Config{URL: url, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.CreateSchema(ctx, pool, nil))
	return pool
}

func seedMember(t *testing.T, pool *pgxpool.Pool, qualifications, certifications []string) uuid.UUID {
	t.Helper()

	doc := &models.ProfileDocument{
		PersonalInfo: models.PersonalInfo{
			FullName: "Integration Member",
			Email:    "integration@example.org",
		},
		ProfessionalInfo: models.ProfessionalProfile{
			MembershipNumber:  "IT-" + uuid.NewString()[:8],
			MembershipType:    "full",
			Specialization:    "Hydrology",
			YearsOfExperience: 4,
			Qualifications:    qualifications,
			Certifications:    certifications,
		},
		Preferences: models.Preferences{
			Privacy: models.PrivacyPreferences{ProfileVisibility: "public"},
		},
	}

	userID, err := database.SeedMember(context.Background(), pool, doc)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, userID)
	})
	return userID
}

func updatedDocument(qualifications, certifications []string) *models.ProfileDocument {
	return &models.ProfileDocument{
		PersonalInfo: models.PersonalInfo{
			FullName: "Updated Member",
			Email:    "updated@example.org",
			Phone:    "+15550100",
		},
		ProfessionalInfo: models.ProfessionalProfile{
			Specialization:    "Geotechnics",
			YearsOfExperience: 5,
			CurrentPosition:   "Lead",
			Organization:      "Basin Authority",
			Qualifications:    qualifications,
			Certifications:    certifications,
		},
		Preferences: models.Preferences{
			Notifications: models.NotificationPreferences{Email: true, SMS: true},
			Privacy:       models.PrivacyPreferences{ProfileVisibility: "private", ShowContactInfo: true},
		},
	}
}

func TestProfileRoundTrip(t *testing.T) {
	pool := openTestPool(t)
	repo := repository.NewProfileRepository(pool, zaptest.NewLogger(t))
	ctx := context.Background()
	userID := seedMember(t, pool, []string{"BSc"}, []string{"Old Cert"})

	doc := updatedDocument([]string{"MSc", "PhD"}, []string{"Chartered"})
	require.NoError(t, repo.UpdateProfile(ctx, userID, doc))

	got, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"MSc", "PhD"}, got.ProfessionalInfo.Qualifications)
	assert.ElementsMatch(t, []string{"Chartered"}, got.ProfessionalInfo.Certifications)
	assert.Equal(t, doc.PersonalInfo, got.PersonalInfo)
	assert.Equal(t, doc.Preferences, got.Preferences)
	assert.Equal(t, "Geotechnics", got.ProfessionalInfo.Specialization)
	assert.NotEmpty(t, got.ProfessionalInfo.MembershipNumber)
}

func TestProfileEmptyListsClearRows(t *testing.T) {
	pool := openTestPool(t)
	repo := repository.NewProfileRepository(pool, zaptest.NewLogger(t))
	ctx := context.Background()
	userID := seedMember(t, pool, []string{"BSc", "MSc"}, []string{"Cert"})

	require.NoError(t, repo.UpdateProfile(ctx, userID, updatedDocument([]string{}, []string{})))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM qualifications WHERE user_id = $1`, userID).Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM certifications WHERE user_id = $1`, userID).Scan(&count))
	assert.Zero(t, count)
}

func TestProfileGetUnknownUser(t *testing.T) {
	pool := openTestPool(t)
	repo := repository.NewProfileRepository(pool, zaptest.NewLogger(t))

	_, err := repo.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// failingDB injects an error into the first Exec whose SQL contains failOn
type failingDB struct {
	repository.DB
	failOn string
}

func (f failingDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := f.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{Tx: tx, failOn: f.failOn}, nil
}

type failingTx struct {
	pgx.Tx
	failOn string
}

var errInjected = errors.New("injected failure")

func (f failingTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if strings.Contains(sql, f.failOn) {
		return pgconn.CommandTag{}, errInjected
	}
	return f.Tx.Exec(ctx, sql, args...)
}

func TestProfileUpdateIsAtomic(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	userID := seedMember(t, pool, []string{"BSc", "MSc"}, []string{"Cert"})

	reader := repository.NewProfileRepository(pool, zaptest.NewLogger(t))
	before, err := reader.GetProfile(ctx, userID)
	require.NoError(t, err)

	// qualifications are already replaced when the preferences upsert fails
	writer := repository.NewProfileRepository(failingDB{DB: pool, failOn: "INSERT INTO user_preferences"}, zaptest.NewLogger(t))
	err = writer.UpdateProfile(ctx, userID, updatedDocument([]string{"Replaced"}, nil))
	require.ErrorIs(t, err, repository.ErrWriteFailed)
	require.ErrorIs(t, err, errInjected)

	after, err := reader.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProfileConcurrentReadersSeeWholeSets(t *testing.T) {
	pool := openTestPool(t)
	repo := repository.NewProfileRepository(pool, zaptest.NewLogger(t))
	ctx := context.Background()

	setA := []string{"A1", "A2", "A3"}
	setB := []string{"B1", "B2"}
	userID := seedMember(t, pool, setA, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	// a single writer alternates the set; readers must only ever observe a whole set
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10; i++ {
			set := setA
			if i%2 == 0 {
				set = setB
			}
			if err := repo.UpdateProfile(ctx, userID, updatedDocument(set, nil)); err != nil {
				errs <- err
				return
			}
		}
	}()

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := repo.GetProfile(ctx, userID)
			if err != nil {
				errs <- err
				return
			}
			got := doc.ProfessionalInfo.Qualifications
			if !sameSet(got, setA) && !sameSet(got, setB) {
				errs <- errors.New("observed partial qualification set: " + strings.Join(got, ","))
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		if seen[v] == 0 {
			return false
		}
		seen[v]--
	}
	return true
}
