package goals

import (
	"github.com/chipheo00/wealth-vn/internal/models"
	"github.com/chipheo00/wealth-vn/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence boundary of the goal engine.
//
// Plain reads run directly against the database and may observe writes
// committed in between. Each mutating call runs as its own transaction on
// the single writer goroutine. Operations that must not interleave with
// other writers, validate-then-write sequences in particular, group their
// calls with Atomically.
type Store interface {
	// Atomically runs fn in one writer transaction. The Store passed to fn
	// issues every call on that transaction; an error returned from fn rolls
	// the whole transaction back.
	Atomically(fn func(tx Store) error) error

	Goals() ([]models.Goal, error)
	Goal(id uuid.UUID) (models.Goal, error)
	CreateGoal(goal *models.Goal) error
	UpdateGoal(goal models.Goal) (models.Goal, error)
	DeleteGoal(id uuid.UUID) (int64, error)

	// Allocations returns the allocations of all non-achieved goals.
	Allocations() ([]models.Allocation, error)
	AllocationsForAccountOnDate(accountID string, date types.Date) ([]models.Allocation, error)
	AllocationsForGoal(goalID uuid.UUID) ([]models.Allocation, error)
	AllocationsForAccount(accountID string) ([]models.Allocation, error)
	Allocation(id uuid.UUID) (models.Allocation, error)
	CreateAllocation(allocation *models.Allocation) error
	UpsertAllocations(allocations []models.Allocation) (int64, error)
	UpdateAllocation(allocation models.Allocation) (models.Allocation, error)
	DeleteAllocation(id uuid.UUID) (int64, error)

	// AllocationVersions returns all versions of an allocation, ordered by
	// start date ascending.
	AllocationVersions(allocationID uuid.UUID) ([]models.AllocationVersion, error)
	CreateAllocationVersion(version *models.AllocationVersion) error
	CloseAllocationVersion(id uuid.UUID, end types.Date) error

	Close()
}

type gormStore struct {
	db     *gorm.DB
	writer *writer
}

// NewStore returns a Store backed by the given gorm database. It starts the
// single writer goroutine owning the store's write path; Close stops it.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:     db,
		writer: newWriter(db),
	}
}

func (s *gormStore) Close() {
	s.writer.close()
}

func (s *gormStore) Atomically(fn func(tx Store) error) error {
	return s.writer.exec(func(tx *gorm.DB) error {
		return fn(&txStore{db: tx})
	})
}

func (s *gormStore) Goals() ([]models.Goal, error) {
	return (&txStore{db: s.db}).Goals()
}

func (s *gormStore) Goal(id uuid.UUID) (models.Goal, error) {
	return (&txStore{db: s.db}).Goal(id)
}

func (s *gormStore) CreateGoal(goal *models.Goal) error {
	return s.writer.exec(func(tx *gorm.DB) error {
		return (&txStore{db: tx}).CreateGoal(goal)
	})
}

func (s *gormStore) UpdateGoal(goal models.Goal) (models.Goal, error) {
	var updated models.Goal
	err := s.writer.exec(func(tx *gorm.DB) error {
		var err error
		updated, err = (&txStore{db: tx}).UpdateGoal(goal)
		return err
	})

	return updated, err
}

func (s *gormStore) DeleteGoal(id uuid.UUID) (int64, error) {
	var count int64
	err := s.writer.exec(func(tx *gorm.DB) error {
		var err error
		count, err = (&txStore{db: tx}).DeleteGoal(id)
		return err
	})

	return count, err
}

func (s *gormStore) Allocations() ([]models.Allocation, error) {
	return (&txStore{db: s.db}).Allocations()
}

func (s *gormStore) AllocationsForAccountOnDate(accountID string, date types.Date) ([]models.Allocation, error) {
	return (&txStore{db: s.db}).AllocationsForAccountOnDate(accountID, date)
}

func (s *gormStore) AllocationsForGoal(goalID uuid.UUID) ([]models.Allocation, error) {
	return (&txStore{db: s.db}).AllocationsForGoal(goalID)
}

func (s *gormStore) AllocationsForAccount(accountID string) ([]models.Allocation, error) {
	return (&txStore{db: s.db}).AllocationsForAccount(accountID)
}

func (s *gormStore) Allocation(id uuid.UUID) (models.Allocation, error) {
	return (&txStore{db: s.db}).Allocation(id)
}

func (s *gormStore) CreateAllocation(allocation *models.Allocation) error {
	return s.writer.exec(func(tx *gorm.DB) error {
		return (&txStore{db: tx}).CreateAllocation(allocation)
	})
}

func (s *gormStore) UpsertAllocations(allocations []models.Allocation) (int64, error) {
	var affected int64
	err := s.writer.exec(func(tx *gorm.DB) error {
		var err error
		affected, err = (&txStore{db: tx}).UpsertAllocations(allocations)
		return err
	})

	return affected, err
}

func (s *gormStore) UpdateAllocation(allocation models.Allocation) (models.Allocation, error) {
	var updated models.Allocation
	err := s.writer.exec(func(tx *gorm.DB) error {
		var err error
		updated, err = (&txStore{db: tx}).UpdateAllocation(allocation)
		return err
	})

	return updated, err
}

func (s *gormStore) DeleteAllocation(id uuid.UUID) (int64, error) {
	var count int64
	err := s.writer.exec(func(tx *gorm.DB) error {
		var err error
		count, err = (&txStore{db: tx}).DeleteAllocation(id)
		return err
	})

	return count, err
}

func (s *gormStore) AllocationVersions(allocationID uuid.UUID) ([]models.AllocationVersion, error) {
	return (&txStore{db: s.db}).AllocationVersions(allocationID)
}

func (s *gormStore) CreateAllocationVersion(version *models.AllocationVersion) error {
	return s.writer.exec(func(tx *gorm.DB) error {
		return (&txStore{db: tx}).CreateAllocationVersion(version)
	})
}

func (s *gormStore) CloseAllocationVersion(id uuid.UUID, end types.Date) error {
	return s.writer.exec(func(tx *gorm.DB) error {
		return (&txStore{db: tx}).CloseAllocationVersion(id, end)
	})
}

// txStore issues every call directly on one gorm handle. It backs both the
// plain read path and the transaction view handed to Atomically callbacks.
type txStore struct {
	db *gorm.DB
}

// Atomically on a transaction view runs fn on the same transaction.
func (s *txStore) Atomically(fn func(tx Store) error) error {
	return fn(s)
}

// Close is a no-op; the transaction's lifetime is owned by the writer.
func (s *txStore) Close() {}

func (s *txStore) Goals() ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.Find(&goals).Error
	return goals, err
}

func (s *txStore) Goal(id uuid.UUID) (models.Goal, error) {
	var goal models.Goal
	err := s.db.First(&goal, "id = ?", id).Error
	return goal, err
}

func (s *txStore) CreateGoal(goal *models.Goal) error {
	return s.db.Create(goal).Error
}

func (s *txStore) UpdateGoal(goal models.Goal) (models.Goal, error) {
	err := s.db.Model(&goal).Select("*").Omit("id", "created_at").Updates(goal).Error
	if err != nil {
		return models.Goal{}, err
	}

	err = s.db.First(&goal, "id = ?", goal.ID).Error
	return goal, err
}

func (s *txStore) DeleteGoal(id uuid.UUID) (int64, error) {
	result := s.db.Delete(&models.Goal{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (s *txStore) Allocations() ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := s.db.
		Joins("JOIN goals ON goals.id = allocations.goal_id").
		Where("goals.achieved = ?", false).
		Find(&allocations).Error

	return allocations, err
}

func (s *txStore) AllocationsForAccountOnDate(accountID string, date types.Date) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := s.db.
		Where("account_id = ?", accountID).
		Where("start_date <= ?", date).
		Where("end_date >= ?", date).
		Find(&allocations).Error

	return allocations, err
}

func (s *txStore) AllocationsForGoal(goalID uuid.UUID) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := s.db.Where("goal_id = ?", goalID).Find(&allocations).Error
	return allocations, err
}

func (s *txStore) AllocationsForAccount(accountID string) ([]models.Allocation, error) {
	var allocations []models.Allocation
	err := s.db.Where("account_id = ?", accountID).Find(&allocations).Error
	return allocations, err
}

func (s *txStore) Allocation(id uuid.UUID) (models.Allocation, error) {
	var allocation models.Allocation
	err := s.db.First(&allocation, "id = ?", id).Error
	return allocation, err
}

func (s *txStore) CreateAllocation(allocation *models.Allocation) error {
	return s.db.Create(allocation).Error
}

// UpsertAllocations inserts or updates allocations keyed by their ID and
// returns the number of affected rows.
func (s *txStore) UpsertAllocations(allocations []models.Allocation) (int64, error) {
	var affected int64
	for i := range allocations {
		result := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&allocations[i])
		if result.Error != nil {
			return affected, result.Error
		}

		affected += result.RowsAffected
	}

	return affected, nil
}

func (s *txStore) UpdateAllocation(allocation models.Allocation) (models.Allocation, error) {
	err := s.db.Model(&allocation).Select("*").Omit("id", "created_at", "init_amount").Updates(allocation).Error
	if err != nil {
		return models.Allocation{}, err
	}

	err = s.db.First(&allocation, "id = ?", allocation.ID).Error
	return allocation, err
}

func (s *txStore) DeleteAllocation(id uuid.UUID) (int64, error) {
	result := s.db.Delete(&models.Allocation{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (s *txStore) AllocationVersions(allocationID uuid.UUID) ([]models.AllocationVersion, error) {
	var versions []models.AllocationVersion
	err := s.db.
		Where("allocation_id = ?", allocationID).
		Order("start_date ASC").
		Find(&versions).Error

	return versions, err
}

func (s *txStore) CreateAllocationVersion(version *models.AllocationVersion) error {
	return s.db.Create(version).Error
}

// CloseAllocationVersion sets the end date of an open version. Versions are
// immutable apart from this.
func (s *txStore) CloseAllocationVersion(id uuid.UUID, end types.Date) error {
	result := s.db.Model(&models.AllocationVersion{}).
		Where("id = ?", id).
		Update("end_date", end)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
