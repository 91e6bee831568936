package database

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/amoylab/casedesk/internal/common/cnst"

	"gorm.io/gorm"
)

// store holds the dialect independent gorm implementation of Database
type store struct {
	db *gorm.DB
}

func newStore(db *gorm.DB) *store {
	return &store{db: db}
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Transaction joins the transaction already carried by ctx or starts a new one
func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if TransactionFromContext(ctx) != nil {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

func (s *store) conn(ctx context.Context) *gorm.DB {
	return getDBFromContext(ctx, s.db)
}

func (s *store) CreateTenant(ctx context.Context, tenant *Tenant) error {
	return convertError(s.conn(ctx).Create(tenant).Error)
}

func (s *store) GetTenantByID(ctx context.Context, id string) (*Tenant, error) {
	var tenant Tenant
	if err := s.conn(ctx).Where("id = ?", id).First(&tenant).Error; err != nil {
		return nil, convertError(err)
	}
	return &tenant, nil
}

func (s *store) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	if err := s.conn(ctx).Where("slug = ?", slug).First(&tenant).Error; err != nil {
		return nil, convertError(err)
	}
	return &tenant, nil
}

// AcquireLicense increments the in-use counter only while it stays below the total
func (s *store) AcquireLicense(ctx context.Context, tenantID string) error {
	db := s.conn(ctx)
	res := db.Model(&Tenant{}).
		Where("id = ? AND licenses_in_use < licenses_total", tenantID).
		UpdateColumn("licenses_in_use", gorm.Expr("licenses_in_use + ?", 1))
	if res.Error != nil {
		return convertError(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.Model(&Tenant{}).Where("id = ?", tenantID).Count(&count).Error; err != nil {
		return convertError(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrLicenseLimit
}

func (s *store) ReleaseLicense(ctx context.Context, tenantID string) error {
	return s.conn(ctx).Model(&Tenant{}).
		Where("id = ? AND licenses_in_use > 0", tenantID).
		UpdateColumn("licenses_in_use", gorm.Expr("licenses_in_use - ?", 1)).Error
}

func (s *store) SuspendExpiredSubscriptions(ctx context.Context, now time.Time) ([]string, error) {
	var slugs []string
	err := s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Model(&Tenant{}).
			Where("subscription_status IN ? AND subscription_end_date < ?",
				[]string{cnst.SubscriptionActive, cnst.SubscriptionTrial}, now).
			Pluck("slug", &slugs).Error; err != nil {
			return err
		}
		if len(slugs) == 0 {
			return nil
		}
		return db.Model(&Tenant{}).
			Where("slug IN ?", slugs).
			Update("subscription_status", cnst.SubscriptionSuspended).Error
	})
	if err != nil {
		return nil, convertError(err)
	}
	return slugs, nil
}

func (s *store) CreateUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(user.Email)
	return convertError(s.conn(ctx).Create(user).Error)
}

func (s *store) GetUserByID(ctx context.Context, tenantID, id string) (*User, error) {
	var user User
	if err := s.conn(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&user).Error; err != nil {
		return nil, convertError(err)
	}
	return &user, nil
}

func (s *store) GetUserByEmail(ctx context.Context, tenantID, email string) (*User, error) {
	var user User
	err := s.conn(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &user, nil
}

func (s *store) UpdateUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(user.Email)
	return convertError(s.conn(ctx).Save(user).Error)
}

func (s *store) DeleteUser(ctx context.Context, tenantID, id string) error {
	res := s.conn(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&User{})
	if res.Error != nil {
		return convertError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var userSortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"first_name":    "first_name",
	"last_name":     "last_name",
	"email":         "email",
	"role":          "role",
	"department":    "department",
	"last_login_at": "last_login_at",
}

func (s *store) ListUsers(ctx context.Context, filter *UserFilter) ([]*User, int64, error) {
	q := s.conn(ctx).Model(&User{}).Where("tenant_id = ?", filter.TenantID)
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Department != "" {
		q = q.Where("department = ?", filter.Department)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, convertError(err)
	}

	column, ok := userSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	order := column + " ASC"
	if filter.SortDesc {
		order = column + " DESC"
	}

	var users []*User
	if err := paginate(q.Order(order), filter.Page).Find(&users).Error; err != nil {
		return nil, 0, convertError(err)
	}
	return users, total, nil
}

func (s *store) GetUserStats(ctx context.Context, tenantID string) (*UserStats, error) {
	base := s.conn(ctx).Model(&User{}).Where("tenant_id = ?", tenantID).Session(&gorm.Session{})

	stats := &UserStats{}
	if err := base.Count(&stats.Total).Error; err != nil {
		return nil, convertError(err)
	}
	if err := base.Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, convertError(err)
	}
	stats.Inactive = stats.Total - stats.Active

	var err error
	if stats.ByRole, err = groupCount(base, "role"); err != nil {
		return nil, err
	}
	if stats.ByDepartment, err = groupCount(base, "department"); err != nil {
		return nil, err
	}
	if n, ok := stats.ByDepartment[""]; ok {
		delete(stats.ByDepartment, "")
		stats.ByDepartment["unassigned"] += n
	}
	return stats, nil
}

// RecordLoginFailure increments the counter in place and turns a full counter into a lock
func (s *store) RecordLoginFailure(ctx context.Context, userID string, maxAttempts int, lockUntil time.Time) (*User, error) {
	var user User
	err := s.Transaction(ctx, func(ctx context.Context) error {
		db := s.conn(ctx)
		if err := db.Model(&User{}).Where("id = ?", userID).
			UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + ?", 1)).Error; err != nil {
			return err
		}
		if err := db.Model(&User{}).
			Where("id = ? AND failed_login_attempts >= ?", userID, maxAttempts).
			UpdateColumns(map[string]any{"locked_until": lockUntil, "failed_login_attempts": 0}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", userID).First(&user).Error
	})
	if err != nil {
		return nil, convertError(err)
	}
	return &user, nil
}

func (s *store) RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error {
	return s.conn(ctx).Model(&User{}).Where("id = ?", userID).
		UpdateColumns(map[string]any{
			"failed_login_attempts": 0,
			"locked_until":          nil,
			"last_login_at":         at,
		}).Error
}

func (s *store) CreateComplaint(ctx context.Context, complaint *Complaint) error {
	return convertError(s.conn(ctx).Create(complaint).Error)
}

func (s *store) GetComplaint(ctx context.Context, tenantID, id string) (*Complaint, error) {
	var complaint Complaint
	if err := s.conn(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&complaint).Error; err != nil {
		return nil, convertError(err)
	}
	return &complaint, nil
}

// UpdateComplaint writes the whole row guarded by the version read earlier
func (s *store) UpdateComplaint(ctx context.Context, complaint *Complaint) error {
	prev := complaint.Version
	complaint.Version = prev + 1
	res := s.conn(ctx).Model(complaint).
		Where("tenant_id = ? AND version = ?", complaint.TenantID, prev).
		Select("*").Omit("ID", "TenantID", "CreatedAt").
		Updates(complaint)
	if res.Error != nil {
		complaint.Version = prev
		return convertError(res.Error)
	}
	if res.RowsAffected == 0 {
		complaint.Version = prev
		return ErrConcurrentUpdate
	}
	return nil
}

func (s *store) ListComplaints(ctx context.Context, filter *ComplaintFilter) ([]*Complaint, int64, error) {
	q := s.conn(ctx).Model(&Complaint{}).Where("tenant_id = ?", filter.TenantID)
	if filter.ComplainantID != "" {
		q = q.Where("complainant_id = ?", filter.ComplainantID)
	}
	if filter.OwnOrAssigned != "" {
		q = q.Where("(complainant_id = ? OR assigned_to = ?)", filter.OwnOrAssigned, filter.OwnOrAssigned)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedTo != "" {
		q = q.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.DateFrom != nil {
		q = q.Where("incident_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("incident_date <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, convertError(err)
	}

	var complaints []*Complaint
	if err := paginate(q.Order("created_at DESC"), filter.Page).Find(&complaints).Error; err != nil {
		return nil, 0, convertError(err)
	}
	return complaints, total, nil
}

func (s *store) GetComplaintStats(ctx context.Context, tenantID string) (*ComplaintStats, error) {
	base := s.conn(ctx).Model(&Complaint{}).Where("tenant_id = ?", tenantID).Session(&gorm.Session{})

	stats := &ComplaintStats{}
	if err := base.Count(&stats.Total).Error; err != nil {
		return nil, convertError(err)
	}
	var err error
	if stats.ByStatus, err = groupCount(base, "status"); err != nil {
		return nil, err
	}
	if stats.ByType, err = groupCount(base, "type"); err != nil {
		return nil, err
	}
	if stats.BySeverity, err = groupCount(base, "severity"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = groupCount(base, "priority"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *store) CreateInvestigation(ctx context.Context, investigation *Investigation) error {
	return convertError(s.conn(ctx).Create(investigation).Error)
}

func (s *store) GetInvestigation(ctx context.Context, tenantID, id string) (*Investigation, error) {
	var investigation Investigation
	if err := s.conn(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&investigation).Error; err != nil {
		return nil, convertError(err)
	}
	return &investigation, nil
}

func (s *store) GetActiveInvestigation(ctx context.Context, tenantID, complaintID string) (*Investigation, error) {
	var investigation Investigation
	err := s.conn(ctx).
		Where("tenant_id = ? AND complaint_id = ? AND is_active = ?", tenantID, complaintID, true).
		First(&investigation).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &investigation, nil
}

// UpdateInvestigation writes the whole row guarded by the version read earlier
func (s *store) UpdateInvestigation(ctx context.Context, investigation *Investigation) error {
	prev := investigation.Version
	investigation.Version = prev + 1
	res := s.conn(ctx).Model(investigation).
		Where("tenant_id = ? AND version = ?", investigation.TenantID, prev).
		Select("*").Omit("ID", "TenantID", "CreatedAt").
		Updates(investigation)
	if res.Error != nil {
		investigation.Version = prev
		return convertError(res.Error)
	}
	if res.RowsAffected == 0 {
		investigation.Version = prev
		return ErrConcurrentUpdate
	}
	return nil
}

// closedStatuses never count as overdue
var closedStatuses = []string{string(cnst.InvestigationCompleted), string(cnst.InvestigationCancelled)}

func (s *store) ListInvestigations(ctx context.Context, filter *InvestigationFilter) ([]*Investigation, int64, error) {
	q := s.conn(ctx).Model(&Investigation{}).
		Where("tenant_id = ? AND is_active = ?", filter.TenantID, true)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.InvestigatorID != "" {
		q = q.Where("investigator_id = ?", filter.InvestigatorID)
	}
	if filter.ComplaintID != "" {
		q = q.Where("complaint_id = ?", filter.ComplaintID)
	}
	if filter.OverdueOnly {
		q = q.Where("estimated_completion_date < ? AND status NOT IN ?", filter.Now, closedStatuses)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, convertError(err)
	}

	var investigations []*Investigation
	if err := paginate(q.Order("created_at DESC"), filter.Page).Find(&investigations).Error; err != nil {
		return nil, 0, convertError(err)
	}
	return investigations, total, nil
}

func (s *store) GetInvestigationStats(ctx context.Context, tenantID, investigatorID string, now time.Time) (*InvestigationStats, error) {
	q := s.conn(ctx).Model(&Investigation{}).Where("tenant_id = ? AND is_active = ?", tenantID, true)
	if investigatorID != "" {
		q = q.Where("investigator_id = ?", investigatorID)
	}
	base := q.Session(&gorm.Session{})

	stats := &InvestigationStats{}
	if err := base.Count(&stats.Overview.Total).Error; err != nil {
		return nil, convertError(err)
	}
	if err := base.Where("estimated_completion_date < ? AND status NOT IN ?", now, closedStatuses).
		Count(&stats.Overview.Overdue).Error; err != nil {
		return nil, convertError(err)
	}

	var err error
	if stats.ByStatus, err = groupCount(base, "status"); err != nil {
		return nil, err
	}
	if stats.ByPriority, err = groupCount(base, "priority"); err != nil {
		return nil, err
	}
	stats.Overview.Pending = stats.ByStatus[string(cnst.InvestigationPending)]
	stats.Overview.InProgress = stats.ByStatus[string(cnst.InvestigationInProgress)]
	stats.Overview.Completed = stats.ByStatus[string(cnst.InvestigationCompleted)]
	return stats, nil
}

func (s *store) CountOverdueInvestigations(ctx context.Context, now time.Time) (map[string]int64, error) {
	base := s.conn(ctx).Model(&Investigation{}).
		Where("is_active = ? AND estimated_completion_date < ? AND status NOT IN ?", true, now, closedStatuses)
	return groupCount(base, "tenant_id")
}

func (s *store) CreateResource(ctx context.Context, resource *Resource) error {
	return convertError(s.conn(ctx).Create(resource).Error)
}

func (s *store) GetResource(ctx context.Context, tenantID, category, key string) (*Resource, error) {
	var resource Resource
	err := s.conn(ctx).
		Where(map[string]any{"tenant_id": tenantID, "category": category, "key": key}).
		First(&resource).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &resource, nil
}

func (s *store) UpdateResource(ctx context.Context, resource *Resource) error {
	return convertError(s.conn(ctx).Save(resource).Error)
}

func (s *store) ListResources(ctx context.Context, tenantID, category string, activeOnly bool) ([]*Resource, error) {
	q := s.conn(ctx).Where("tenant_id = ? AND category = ?", tenantID, category)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var resources []*Resource
	if err := q.Order("sort_order ASC").Order("label ASC").Find(&resources).Error; err != nil {
		return nil, convertError(err)
	}
	return resources, nil
}

func (s *store) GetResourcesGrouped(ctx context.Context, tenantID string, activeOnly bool) ([]*ResourceGroup, error) {
	q := s.conn(ctx).Where("tenant_id = ?", tenantID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var resources []*Resource
	if err := q.Order("category ASC").Order("sort_order ASC").Order("label ASC").Find(&resources).Error; err != nil {
		return nil, convertError(err)
	}

	index := make(map[string]*ResourceGroup)
	groups := make([]*ResourceGroup, 0)
	for _, r := range resources {
		g, ok := index[r.Category]
		if !ok {
			g = &ResourceGroup{Category: r.Category}
			index[r.Category] = g
			groups = append(groups, g)
		}
		g.Items = append(g.Items, r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups, nil
}

func (s *store) ResourceKeyExists(ctx context.Context, tenantID, category, key string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&Resource{}).
		Where(map[string]any{"tenant_id": tenantID, "category": category, "key": key, "is_active": true}).
		Count(&count).Error
	if err != nil {
		return false, convertError(err)
	}
	return count > 0, nil
}

// ensure every dialect wrapper satisfies the interface
var (
	_ Database = (*SQLite)(nil)
	_ Database = (*Postgres)(nil)
	_ Database = (*MySQL)(nil)
)
