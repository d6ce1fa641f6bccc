package sqlite_test

import (
	"testing"

	budgetSqlite "github.com/frahmantamala/monthly-budget/internal/budget/sqlite"
	stateDatamodel "github.com/frahmantamala/monthly-budget/internal/core/datamodel/state"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestStateRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SQLite State Repository Suite")
}

var _ = Describe("StateRepository", func() {
	var db *gorm.DB

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&stateDatamodel.AppStateRecord{})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("should report a missing key without an error", func() {
		repo := budgetSqlite.NewStateRepository(db)

		value, found, err := repo.Get("budget-app-state")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeFalse())
		Expect(value).To(BeNil())
	})

	It("should overwrite the whole value on every put", func() {
		repo := budgetSqlite.NewStateRepository(db)

		Expect(repo.Put("budget-app-state", []byte(`{"v":1}`))).To(Succeed())
		Expect(repo.Put("budget-app-state", []byte(`{"v":2}`))).To(Succeed())

		value, found, err := repo.Get("budget-app-state")
		Expect(err).NotTo(HaveOccurred())
		Expect(found).To(BeTrue())
		Expect(string(value)).To(Equal(`{"v":2}`))

		var count int64
		Expect(db.Model(&stateDatamodel.AppStateRecord{}).Count(&count).Error).NotTo(HaveOccurred())
		Expect(count).To(Equal(int64(1)))
	})

	It("should keep keys apart", func() {
		repo := budgetSqlite.NewStateRepository(db)

		Expect(repo.Put("a", []byte("first"))).To(Succeed())
		Expect(repo.Put("b", []byte("second"))).To(Succeed())

		value, _, err := repo.Get("a")
		Expect(err).NotTo(HaveOccurred())
		Expect(string(value)).To(Equal("first"))
	})

	It("should surface errors from the database", func() {
		repo := budgetSqlite.NewStateRepository(db)
		Expect(db.Migrator().DropTable(&stateDatamodel.AppStateRecord{})).To(Succeed())

		_, _, err := repo.Get("a")
		Expect(err).To(HaveOccurred())
		Expect(repo.Put("a", []byte("x"))).To(HaveOccurred())
	})
})
