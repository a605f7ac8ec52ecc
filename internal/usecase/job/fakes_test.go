package job

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/fieldops/internal/domain"
	jobdomain "github.com/BruksfildServices01/fieldops/internal/domain/job"
	"github.com/BruksfildServices01/fieldops/internal/models"
	"github.com/BruksfildServices01/fieldops/internal/usecase"
)

var (
	admin = usecase.Actor{ID: 1, Admin: true}
	staff = usecase.Actor{ID: 7}
)

type fakeRepo struct {
	customers map[uint]*models.Customer
	services  map[uint]*models.Service
	users     map[uint]*models.User
	jobs      map[uint]*models.Job

	nextID uint
	saves  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: map[uint]*models.Customer{
			1: {ID: 1, Name: "Ana Souza", Email: "ana@example.com", Phone: "+15550001"},
		},
		services: map[uint]*models.Service{
			1: {ID: 1, Name: "Deep clean", Price: 120, Active: true},
			2: {ID: 2, Name: "Windows", Price: 40, Active: false},
		},
		users: map[uint]*models.User{
			7: {ID: 7, Name: "Bruno", Role: "Staff", Active: true},
			8: {ID: 8, Name: "Carla", Role: "staff", Active: false},
		},
		jobs:   map[uint]*models.Job{},
		nextID: 100,
	}
}

// seedJob stores a scheduled job owned by staff and returns its id.
func (r *fakeRepo) seedJob(status jobdomain.Status) uint {
	r.nextID++
	assignee := staff.ID
	r.jobs[r.nextID] = &models.Job{
		ID:           r.nextID,
		CustomerID:   1,
		ServiceID:    1,
		AssignedTo:   &assignee,
		JobDate:      time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Status:       string(status),
		ServicePrice: 120,
	}
	return r.nextID
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(repo jobdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetCustomer(_ context.Context, id uint) (*models.Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.DeletedAt.Valid {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeRepo) GetActiveService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok || !s.Active {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) GetActiveStaff(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok || !u.CanWork() {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *fakeRepo) CreateJob(_ context.Context, j *models.Job) error {
	r.nextID++
	j.ID = r.nextID
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeRepo) live(id uint) (*models.Job, bool) {
	j, ok := r.jobs[id]
	if !ok || j.DeletedAt.Valid {
		return nil, false
	}
	return j, true
}

func (r *fakeRepo) GetJob(_ context.Context, id uint) (*models.Job, error) {
	j, ok := r.live(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	cp.Customer = *r.customers[j.CustomerID]
	cp.Service = *r.services[j.ServiceID]
	if j.AssignedTo != nil {
		cp.AssignedUser = r.users[*j.AssignedTo]
	}
	return &cp, nil
}

func (r *fakeRepo) LockJob(_ context.Context, id uint) (*models.Job, error) {
	j, ok := r.live(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeRepo) SaveJob(_ context.Context, j *models.Job) error {
	r.saves++
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeRepo) SoftDeleteJob(_ context.Context, id uint) error {
	j, ok := r.live(id)
	if !ok {
		return domain.ErrNotFound
	}
	j.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeRepo) ListJobs(_ context.Context, f jobdomain.ListFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for id := range r.jobs {
		j, ok := r.live(id)
		if !ok {
			continue
		}
		if f.Status != "" && j.Status != string(f.Status) {
			continue
		}
		if f.AssignedTo != nil && (j.AssignedTo == nil || *j.AssignedTo != *f.AssignedTo) {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

var _ jobdomain.Repository = (*fakeRepo)(nil)

type fakeInvoices struct {
	calls []uint
	err   error
}

func (f *fakeInvoices) Execute(_ context.Context, _ usecase.Actor, jobID uint) (*models.Invoice, error) {
	f.calls = append(f.calls, jobID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Invoice{ID: 1, JobID: jobID}, nil
}
