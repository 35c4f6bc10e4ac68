package sqlstore_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/swiftatlas/internal/database"
	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/store"
	"github.com/zdziszkee/swiftatlas/internal/store/sqlstore"
)

const sqliteSchema = `CREATE TABLE swift_banks (
	id TEXT PRIMARY KEY,
	swift_code TEXT NOT NULL,
	swift_code_prefix8 TEXT,
	country_iso2 TEXT,
	bank_name TEXT,
	is_headquarter BOOLEAN,
	address TEXT,
	country_name TEXT
)`

var _ = Describe("Collection (sqlite)", func() {
	var (
		db         *database.Database
		collection *sqlstore.Collection
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = database.New(database.Config{
			Type:         database.TypeSQLite,
			ServerURI:    ":memory:",
			TableName:    "swift_banks",
			MaxOpenConns: 1,
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = db.Exec(sqliteSchema)
		Expect(err).NotTo(HaveOccurred())

		collection = sqlstore.New(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		db.Close()
	})

	insert := func(code string, hq bool) string {
		receipt, err := collection.InsertOne(ctx, &models.SwiftBank{
			SwiftCode:        code,
			SwiftCodePrefix8: code[:8],
			CountryISO2:      "PL",
			BankName:         "Bank " + code,
			IsHeadquarter:    hq,
			Address:          "Street 1",
			CountryName:      "POLAND",
		})
		Expect(err).NotTo(HaveOccurred())
		return receipt.InsertedID
	}

	It("should round-trip documents through the real driver", func() {
		id := insert("BANKPLPWXXX", true)
		insert("BANKPLPW001", false)
		insert("BANKPLPW002", false)

		hq, err := collection.FindOne(ctx, store.Filter{store.FieldSwiftCode: "BANKPLPWXXX"})
		Expect(err).NotTo(HaveOccurred())
		Expect(hq.ID).To(Equal(id))
		Expect(hq.IsHeadquarter).To(BeTrue())

		cur, err := collection.Find(ctx, store.Filter{
			store.FieldSwiftCodePrefix8: "BANKPLPW",
			store.FieldIsHeadquarter:    false,
		})
		Expect(err).NotTo(HaveOccurred())
		branches, err := store.All(ctx, cur)
		Expect(err).NotTo(HaveOccurred())
		Expect(branches).To(HaveLen(2))

		n, err := collection.CountDocuments(ctx, store.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(3)))
	})

	It("should update, replace and delete single documents", func() {
		id := insert("BANKPLPWXXX", true)

		updated, err := collection.UpdateOne(ctx,
			store.Filter{store.FieldSwiftCode: "BANKPLPWXXX"},
			store.Patch{store.FieldBankName: "Renamed"})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.MatchedCount).To(Equal(int64(1)))

		filter, err := collection.IdentityFilter(id)
		Expect(err).NotTo(HaveOccurred())
		replaced, err := collection.ReplaceOne(ctx, filter, &models.SwiftBank{
			SwiftCode:        "BANKPLPWXXX",
			SwiftCodePrefix8: "BANKPLPW",
			CountryISO2:      "PL",
			BankName:         "Replaced",
			IsHeadquarter:    true,
			Address:          "Other Street",
			CountryName:      "POLAND",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(replaced.ModifiedCount).To(Equal(int64(1)))

		bank, err := collection.FindOne(ctx, filter)
		Expect(err).NotTo(HaveOccurred())
		Expect(bank.BankName).To(Equal("Replaced"))
		Expect(bank.Address).To(Equal("Other Street"))

		deleted, err := collection.DeleteOne(ctx, store.Filter{store.FieldSwiftCode: "BANKPLPWXXX"})
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted.DeletedCount).To(Equal(int64(1)))

		deleted, err = collection.DeleteOne(ctx, store.Filter{store.FieldSwiftCode: "BANKPLPWXXX"})
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted.DeletedCount).To(BeZero())
	})
})
