package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	userDatamodel "github.com/javokhirdev/rental-management/internal/core/datamodel/user"
	"github.com/javokhirdev/rental-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

type mockUserRepository struct {
	users  map[int64]*userDatamodel.User
	nextID int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[int64]*userDatamodel.User), nextID: 1}
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (m *mockUserRepository) GetByUsername(username string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) ListByCreator(creatorID int64, roles []string) ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if u.CreatedByID == nil || *u.CreatedByID != creatorID || !u.IsActive {
			continue
		}
		if len(roles) > 0 {
			match := false
			for _, role := range roles {
				if u.Role == role {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) ChildIDs(parentID int64) ([]int64, error) {
	var ids []int64
	for _, u := range m.users {
		if u.CreatedByID != nil && *u.CreatedByID == parentID && u.IsActive {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (m *mockUserRepository) Update(u *userDatamodel.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Deactivate(id int64) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

type mockQuotaChecker struct {
	err error
}

func (m *mockQuotaChecker) WithinQuota(directorID int64, kind string) error {
	return m.err
}

var _ = Describe("User Service", func() {
	var (
		repo     *mockUserRepository
		quotas   *mockQuotaChecker
		svc      *user.Service
		director *auth.User
		admin    *auth.User
		seller   *auth.User
	)

	directorID := int64(1)

	BeforeEach(func() {
		repo = newMockUserRepository()
		quotas = &mockQuotaChecker{}
		testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = user.NewService(repo, quotas, testLogger)

		repo.Create(&userDatamodel.User{Username: "director", Role: auth.RoleDirector, IsActive: true})
		repo.Create(&userDatamodel.User{Username: "admin", Role: auth.RoleAdmin, CreatedByID: &directorID, IsActive: true})
		repo.Create(&userDatamodel.User{Username: "seller", Role: auth.RoleSeller, CreatedByID: &directorID, IsActive: true})

		director = &auth.User{ID: 1, Username: "director", Role: auth.RoleDirector}
		admin = &auth.User{ID: 2, Username: "admin", Role: auth.RoleAdmin, CreatedByID: &directorID}
		seller = &auth.User{ID: 3, Username: "seller", Role: auth.RoleSeller, CreatedByID: &directorID}
	})

	Describe("CreateUser", func() {
		It("lets a director create an admin recorded as their child", func() {
			created, err := svc.CreateUser(director, user.SignupDTO{
				Username: "new-admin",
				Name:     "New Admin",
				Password: "password123",
				Role:     auth.RoleAdmin,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Role).To(Equal(auth.RoleAdmin))
			Expect(*created.CreatedByID).To(Equal(director.ID))
		})

		It("records an admin-created seller against the admin's director", func() {
			created, err := svc.CreateUser(admin, user.SignupDTO{
				Username: "new-seller",
				Name:     "New Seller",
				Password: "password123",
				Role:     auth.RoleSeller,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*created.CreatedByID).To(Equal(directorID))
			Expect(*created.CreatedByID).NotTo(Equal(admin.ID))
		})

		It("rejects an admin creating another admin", func() {
			_, err := svc.CreateUser(admin, user.SignupDTO{
				Username: "rogue-admin",
				Password: "password123",
				Role:     auth.RoleAdmin,
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("rejects a director creating another director", func() {
			_, err := svc.CreateUser(director, user.SignupDTO{
				Username: "rival",
				Password: "password123",
				Role:     auth.RoleDirector,
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects a seller creating anyone", func() {
			_, err := svc.CreateUser(seller, user.SignupDTO{
				Username: "nobody",
				Password: "password123",
				Role:     auth.RoleSeller,
			})
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})

		It("propagates tariff quota failures", func() {
			quotas.err = internal.NewQuotaExceededError("seller quota reached")
			_, err := svc.CreateUser(director, user.SignupDTO{
				Username: "overflow",
				Password: "password123",
				Role:     auth.RoleSeller,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeQuotaExceeded))
		})

		It("rejects duplicate usernames", func() {
			_, err := svc.CreateUser(director, user.SignupDTO{
				Username: "seller",
				Password: "password123",
				Role:     auth.RoleSeller,
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})

	Describe("ListUsers", func() {
		It("shows a director everyone they created", func() {
			users, err := svc.ListUsers(director)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
		})

		It("shows an admin only the director's sellers", func() {
			users, err := svc.ListUsers(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Role).To(Equal(auth.RoleSeller))
		})

		It("denies sellers entirely", func() {
			_, err := svc.ListUsers(seller)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})
	})

	Describe("GetUser", func() {
		It("reads an out-of-scope user as not found", func() {
			otherDirector := int64(99)
			repo.users[50] = &userDatamodel.User{
				ID: 50, Username: "foreign", Role: auth.RoleSeller,
				CreatedByID: &otherDirector, IsActive: true,
			}

			_, err := svc.GetUser(director, 50)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		It("lets a seller read themself", func() {
			u, err := svc.GetUser(seller, seller.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("seller"))
		})
	})

	Describe("UpdateUser", func() {
		It("lets users update their own profile", func() {
			name := "Renamed"
			u, err := svc.UpdateUser(seller, seller.ID, user.UpdateUserDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Name).To(Equal("Renamed"))
		})

		It("denies an admin updating a seller they did not create", func() {
			name := "Hijacked"
			_, err := svc.UpdateUser(admin, seller.ID, user.UpdateUserDTO{Name: &name})
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})

		It("rejects a patch that would leave only one side of the working hours set", func() {
			start := "09:00"
			_, err := svc.UpdateUser(director, director.ID, user.UpdateUserDTO{WorkStartTime: &start})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(repo.users[director.ID].WorkStartTime).To(BeEmpty())
		})

		It("accepts moving one edge of an already-set window", func() {
			repo.users[director.ID].WorkStartTime = "09:00"
			repo.users[director.ID].WorkEndTime = "18:00"

			start := "08:00"
			u, err := svc.UpdateUser(director, director.ID, user.UpdateUserDTO{WorkStartTime: &start})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.WorkStartTime).To(Equal("08:00"))
			Expect(u.WorkEndTime).To(Equal("18:00"))
		})

		It("accepts clearing both sides of the window together", func() {
			repo.users[director.ID].WorkStartTime = "09:00"
			repo.users[director.ID].WorkEndTime = "18:00"

			empty := ""
			u, err := svc.UpdateUser(director, director.ID, user.UpdateUserDTO{WorkStartTime: &empty, WorkEndTime: &empty})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.WorkStartTime).To(BeEmpty())
			Expect(u.WorkEndTime).To(BeEmpty())
		})
	})

	Describe("DeleteUser", func() {
		It("refuses self-deletion", func() {
			err := svc.DeleteUser(director, director.ID)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("lets the creating director deactivate a child", func() {
			err := svc.DeleteUser(director, seller.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.users[seller.ID].IsActive).To(BeFalse())
		})

		It("denies an admin deleting a seller", func() {
			err := svc.DeleteUser(admin, seller.ID)
			Expect(err).To(Equal(internal.ErrPermissionDenied))
		})
	})
})
