package validators_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zdziszkee/swiftatlas/internal/models"
	"github.com/zdziszkee/swiftatlas/internal/validators"
)

func summary(code, iso2 string, hq bool) models.SwiftCodeSummary {
	return models.SwiftCodeSummary{
		Address:       "1 Main St",
		BankName:      "Test Bank",
		CountryISO2:   iso2,
		IsHeadquarter: hq,
		SwiftCode:     code,
	}
}

var _ = Describe("Constructors", func() {
	Describe("NewDetailed", func() {
		It("should normalize every field", func() {
			d, err := validators.NewDetailed(models.SwiftCodeDetailed{
				SwiftCodeSummary: models.SwiftCodeSummary{
					Address:       "  Rue de la Paix 1 ",
					BankName:      " Banque Test ",
					CountryISO2:   "fr",
					IsHeadquarter: true,
					SwiftCode:     "hqcodefr",
				},
				CountryName: " France ",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Address).To(Equal("Rue de la Paix 1"))
			Expect(d.BankName).To(Equal("Banque Test"))
			Expect(d.CountryISO2).To(Equal("FR"))
			Expect(d.SwiftCode).To(Equal("HQCODEFRXXX"))
			Expect(d.CountryName).To(Equal("FRANCE"))
			Expect(d.IsHeadquarter).To(BeTrue())
		})

		It("should fail on free text before looking at the code", func() {
			raw := models.SwiftCodeDetailed{SwiftCodeSummary: summary("bad", "PL", false), CountryName: "  "}
			_, err := validators.NewDetailed(raw)
			Expect(err).To(MatchError(validators.ErrEmptyField))
		})

		It("should fail on the code before the country", func() {
			raw := models.SwiftCodeDetailed{SwiftCodeSummary: summary("INVALID", "POL", false), CountryName: "Poland"}
			_, err := validators.NewDetailed(raw)
			Expect(err).To(MatchError(validators.ErrInvalidLength))
		})

		It("should enforce the headquarter flag", func() {
			raw := models.SwiftCodeDetailed{SwiftCodeSummary: summary("BANKPLPWXXX", "PL", false), CountryName: "Poland"}
			_, err := validators.NewDetailed(raw)
			Expect(err).To(MatchError(validators.ErrHeadquarterMismatch))
		})

		It("should serialize without a branches key", func() {
			d, err := validators.NewDetailed(models.SwiftCodeDetailed{
				SwiftCodeSummary: summary("BANKPLPW123", "PL", false),
				CountryName:      "Poland",
			})
			Expect(err).NotTo(HaveOccurred())

			body, err := json.Marshal(d)
			Expect(err).NotTo(HaveOccurred())

			var decoded map[string]any
			Expect(json.Unmarshal(body, &decoded)).To(Succeed())
			Expect(decoded).NotTo(HaveKey("branches"))
			Expect(decoded).To(HaveKeyWithValue("swiftCode", "BANKPLPW123"))
			Expect(decoded).To(HaveKeyWithValue("countryName", "POLAND"))
		})
	})

	Describe("NewHeadquarterGroup", func() {
		var hq models.SwiftCodeDetailed

		BeforeEach(func() {
			hq = models.SwiftCodeDetailed{SwiftCodeSummary: summary("HQCODEFRXXX", "FR", true), CountryName: "France"}
		})

		It("should attach matching branches", func() {
			group, err := validators.NewHeadquarterGroup(hq, []models.SwiftCodeSummary{
				summary("hqcodefrert", "fr", false),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(group.SwiftCode).To(Equal("HQCODEFRXXX"))
			Expect(group.Branches).To(HaveLen(1))
			Expect(group.Branches[0].SwiftCode).To(Equal("HQCODEFRERT"))
			Expect(group.Branches[0].CountryISO2).To(Equal("FR"))
		})

		It("should fail with a prefix mismatch naming the branch and the prefix", func() {
			_, err := validators.NewHeadquarterGroup(hq, []models.SwiftCodeSummary{
				summary("WRONGPREFRT", "FR", false),
			})
			Expect(err).To(MatchError(validators.ErrPrefixMismatch))
			Expect(err.Error()).To(ContainSubstring("WRONGPREFRT"))
			Expect(err.Error()).To(ContainSubstring("HQCODEFR"))
		})

		It("should validate the headquarter before the branches", func() {
			hq.IsHeadquarter = false
			_, err := validators.NewHeadquarterGroup(hq, []models.SwiftCodeSummary{
				summary("WRONGPREFRT", "FR", false),
			})
			Expect(err).To(MatchError(validators.ErrHeadquarterMismatch))
		})

		It("should serialize an empty branch list as an array", func() {
			group, err := validators.NewHeadquarterGroup(hq, nil)
			Expect(err).NotTo(HaveOccurred())

			body, err := json.Marshal(group)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"branches":[]`))
		})
	})

	Describe("NewCountryGroup", func() {
		It("should build a group for members of one country", func() {
			group, err := validators.NewCountryGroup("ca", " Canada ", []models.SwiftCodeSummary{
				summary("BANKCAMMXXX", "CA", true),
				summary("BANKCAMM001", "CA", false),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(group.CountryISO2).To(Equal("CA"))
			Expect(group.CountryName).To(Equal("CANADA"))
			Expect(group.SwiftCodes).To(HaveLen(2))
		})

		It("should reject a member from another country", func() {
			_, err := validators.NewCountryGroup("CA", "Canada", []models.SwiftCodeSummary{
				summary("BANKUSMMXXX", "US", true),
			})
			Expect(err).To(MatchError(validators.ErrCountryMismatch))
			Expect(err.Error()).To(ContainSubstring("BANKUSMMXXX"))
		})
	})
})
