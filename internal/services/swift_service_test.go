package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/zdziszkee/swiftatlas/internal/metrics"
	"github.com/zdziszkee/swiftatlas/internal/models"
	repository "github.com/zdziszkee/swiftatlas/internal/repositories"
	service "github.com/zdziszkee/swiftatlas/internal/services"
	"github.com/zdziszkee/swiftatlas/internal/store"
	"github.com/zdziszkee/swiftatlas/internal/store/memstore"
	"github.com/zdziszkee/swiftatlas/internal/validators"
	"github.com/zdziszkee/swiftatlas/tests/mocks"
)

func TestServices(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Services Suite")
}

func hq() models.SwiftCodeDetailed {
	return models.SwiftCodeDetailed{
		SwiftCodeSummary: models.SwiftCodeSummary{
			Address:       "1 Wall Street",
			BankName:      "Test Bank",
			CountryISO2:   "US",
			IsHeadquarter: true,
			SwiftCode:     "ABCDUS33XXX",
		},
		CountryName: "UNITED STATES",
	}
}

var _ = Describe("SwiftService", func() {
	var (
		ctx context.Context
		m   *metrics.Metrics
	)

	BeforeEach(func() {
		ctx = context.Background()
		m = metrics.New(prometheus.NewRegistry())
	})

	Describe("GetSwiftCodeDetails", func() {
		Context("when called with a valid SWIFT code", func() {
			It("should return the bank details", func() {
				group := &models.HeadquarterGroup{SwiftCodeDetailed: hq(), Branches: []models.SwiftCodeSummary{}}
				repo := &mocks.MockSwiftRepository{
					GetWithHierarchyFunc: func(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
						return group, nil
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				got, err := s.GetSwiftCodeDetails(ctx, "ABCDUS33XXX")

				Expect(err).ToNot(HaveOccurred())
				Expect(got).To(BeIdenticalTo(group))
				Expect(testutil.ToFloat64(m.Operations.WithLabelValues("get_details", metrics.OutcomeOK))).To(Equal(1.0))
			})
		})

		Context("when called with an invalid SWIFT code", func() {
			It("should return an invalid input error carrying the validation detail", func() {
				repo := &mocks.MockSwiftRepository{
					GetWithHierarchyFunc: func(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
						_, err := validators.NormalizeCode(code)
						return nil, err
					},
				}
				s := service.NewSwiftService(repo, nil, m)

				_, err := s.GetSwiftCodeDetails(ctx, "ABC123")

				Expect(err).To(MatchError(service.ErrInvalidInput))
				Expect(err).To(MatchError(validators.ErrInvalidLength))
				Expect(testutil.ToFloat64(m.Operations.WithLabelValues("get_details", metrics.OutcomeInvalid))).To(Equal(1.0))
			})
		})

		Context("when the code is not found", func() {
			It("should return not found error", func() {
				repo := &mocks.MockSwiftRepository{
					GetWithHierarchyFunc: func(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
						return nil, nil
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				_, err := s.GetSwiftCodeDetails(ctx, "ABCDUS33XXX")

				Expect(err).To(MatchError(service.ErrNotFound))
			})
		})

		Context("when repository returns an error", func() {
			It("should return the error", func() {
				expectedError := errors.New("db error")
				repo := &mocks.MockSwiftRepository{
					GetWithHierarchyFunc: func(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
						return nil, expectedError
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				_, err := s.GetSwiftCodeDetails(ctx, "ABCDUS33XXX")

				Expect(err).To(BeIdenticalTo(expectedError))
				Expect(testutil.ToFloat64(m.Operations.WithLabelValues("get_details", metrics.OutcomeError))).To(Equal(1.0))
			})
		})

		Context("when stored branches do not match the headquarter", func() {
			It("should not blame the caller", func() {
				repo := &mocks.MockSwiftRepository{
					GetWithHierarchyFunc: func(ctx context.Context, code string) (models.SwiftCodeDetails, error) {
						return validators.NewHeadquarterGroup(hq(), []models.SwiftCodeSummary{{
							Address: "x", BankName: "x", CountryISO2: "US", SwiftCode: "WRONGPREFRT",
						}})
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				_, err := s.GetSwiftCodeDetails(ctx, "ABCDUS33XXX")

				Expect(err).To(MatchError(validators.ErrPrefixMismatch))
				Expect(errors.Is(err, service.ErrInvalidInput)).To(BeFalse())
			})
		})
	})

	Describe("GetSwiftCodesByCountry", func() {
		Context("when called with a valid country code", func() {
			It("should return the country codes", func() {
				repo := &mocks.MockSwiftRepository{
					GetByCountryFunc: func(ctx context.Context, countryCode string) (*models.CountryGroup, error) {
						return &models.CountryGroup{CountryISO2: "US", CountryName: "UNITED STATES", SwiftCodes: []models.SwiftCodeSummary{hq().SwiftCodeSummary}}, nil
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				got, err := s.GetSwiftCodesByCountry(ctx, "US")

				Expect(err).ToNot(HaveOccurred())
				Expect(got.SwiftCodes).To(HaveLen(1))
			})
		})

		Context("when called with an invalid country code", func() {
			It("should return an invalid input error", func() {
				repo := &mocks.MockSwiftRepository{
					GetByCountryFunc: func(ctx context.Context, countryCode string) (*models.CountryGroup, error) {
						_, err := validators.NormalizeCountryISO2(countryCode)
						return nil, err
					},
				}
				s := service.NewSwiftService(repo, nil, m)

				_, err := s.GetSwiftCodesByCountry(ctx, "USA")

				Expect(err).To(MatchError(service.ErrInvalidInput))
			})
		})

		Context("when the country has no codes", func() {
			It("should return not found error", func() {
				repo := &mocks.MockSwiftRepository{
					GetByCountryFunc: func(ctx context.Context, countryCode string) (*models.CountryGroup, error) {
						return nil, nil
					},
				}

				s := service.NewSwiftService(repo, nil, m)
				_, err := s.GetSwiftCodesByCountry(ctx, "US")

				Expect(err).To(MatchError(service.ErrNotFound))
			})
		})
	})

	Describe("CreateSwiftCode", func() {
		It("should return the inserted id", func() {
			repo := &mocks.MockSwiftRepository{
				CreateFunc: func(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error) {
					return store.InsertReceipt{InsertedID: "abc"}, nil
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			id, err := s.CreateSwiftCode(ctx, hq())

			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("abc"))
		})

		It("should map duplicates to ErrAlreadyExists", func() {
			repo := &mocks.MockSwiftRepository{
				CreateFunc: func(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error) {
					return store.InsertReceipt{}, repository.ErrDuplicate
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			_, err := s.CreateSwiftCode(ctx, hq())

			Expect(err).To(MatchError(service.ErrAlreadyExists))
			Expect(testutil.ToFloat64(m.Operations.WithLabelValues("create", metrics.OutcomeDuplicate))).To(Equal(1.0))
		})

		It("should map validation failures to ErrInvalidInput", func() {
			repo := &mocks.MockSwiftRepository{
				CreateFunc: func(ctx context.Context, code models.SwiftCodeDetailed) (store.InsertReceipt, error) {
					_, err := validators.NewDetailed(code)
					return store.InsertReceipt{}, err
				},
			}
			code := hq()
			code.IsHeadquarter = false

			s := service.NewSwiftService(repo, nil, m)
			_, err := s.CreateSwiftCode(ctx, code)

			Expect(err).To(MatchError(service.ErrInvalidInput))
			Expect(err).To(MatchError(validators.ErrHeadquarterMismatch))
		})
	})

	Describe("UpdateSwiftCode", func() {
		var (
			repo    *mocks.MockSwiftRepository
			patched store.Patch
		)

		BeforeEach(func() {
			patched = nil
			repo = &mocks.MockSwiftRepository{
				GetByQueryFunc: func(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error) {
					if filter[store.FieldSwiftCode] == "ABCDUS33XXX" {
						existing := hq()
						return &existing, nil
					}
					return nil, nil
				},
				UpdateFunc: func(ctx context.Context, filter store.Filter, patch store.Patch) (store.UpdateReceipt, error) {
					patched = patch
					return store.UpdateReceipt{MatchedCount: 1, ModifiedCount: 1}, nil
				},
			}
		})

		It("should normalize the patched values", func() {
			s := service.NewSwiftService(repo, nil, m)
			got, err := s.UpdateSwiftCode(ctx, "abcdus33xxx", store.Patch{
				store.FieldBankName:    "  New Name  ",
				store.FieldCountryName: "united states",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(got.BankName).To(Equal("New Name"))
			Expect(patched).To(Equal(store.Patch{
				store.FieldBankName:    "New Name",
				store.FieldCountryName: "UNITED STATES",
			}))
		})

		It("should recompute the prefix when the code changes", func() {
			s := service.NewSwiftService(repo, nil, m)
			_, err := s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{store.FieldSwiftCode: "efghus33xxx"})

			Expect(err).NotTo(HaveOccurred())
			Expect(patched).To(HaveKeyWithValue(store.FieldSwiftCode, "EFGHUS33XXX"))
			Expect(patched).To(HaveKeyWithValue(store.FieldSwiftCodePrefix8, "EFGHUS33"))
		})

		It("should refuse to rename onto an existing code", func() {
			repo.GetByQueryFunc = func(ctx context.Context, filter store.Filter) (*models.SwiftCodeDetailed, error) {
				existing := hq()
				return &existing, nil
			}

			s := service.NewSwiftService(repo, nil, m)
			_, err := s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{store.FieldSwiftCode: "EFGHUS33XXX"})

			Expect(err).To(MatchError(service.ErrAlreadyExists))
			Expect(patched).To(BeNil())
		})

		It("should reject patches that break the headquarter rule", func() {
			s := service.NewSwiftService(repo, nil, m)
			_, err := s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{store.FieldIsHeadquarter: false})

			Expect(err).To(MatchError(service.ErrInvalidInput))
			Expect(err).To(MatchError(validators.ErrHeadquarterMismatch))
			Expect(patched).To(BeNil())
		})

		It("should reject unknown, derived and mistyped fields", func() {
			s := service.NewSwiftService(repo, nil, m)

			_, err := s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{"bogus": "x"})
			Expect(err).To(MatchError(service.ErrInvalidInput))

			_, err = s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{store.FieldSwiftCodePrefix8: "ABCDUS33"})
			Expect(err).To(MatchError(service.ErrInvalidInput))

			_, err = s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{store.FieldIsHeadquarter: "yes"})
			Expect(err).To(MatchError(service.ErrInvalidInput))

			_, err = s.UpdateSwiftCode(ctx, "ABCDUS33XXX", store.Patch{})
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})

		It("should return not found for unknown codes", func() {
			s := service.NewSwiftService(repo, nil, m)
			_, err := s.UpdateSwiftCode(ctx, "NOPEUS33XXX", store.Patch{store.FieldBankName: "x"})
			Expect(err).To(MatchError(service.ErrNotFound))
		})
	})

	Describe("ReplaceSwiftCode", func() {
		It("should map an unmatched identity to not found", func() {
			repo := &mocks.MockSwiftRepository{
				ReplaceFunc: func(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error) {
					return store.UpdateReceipt{}, nil
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			Expect(s.ReplaceSwiftCode(ctx, "id", hq())).To(MatchError(service.ErrNotFound))
		})

		It("should map a code held by another document to already exists", func() {
			repo := &mocks.MockSwiftRepository{
				ReplaceFunc: func(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error) {
					return store.UpdateReceipt{}, repository.ErrDuplicate
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			Expect(s.ReplaceSwiftCode(ctx, "id", hq())).To(MatchError(service.ErrAlreadyExists))
			Expect(testutil.ToFloat64(m.Operations.WithLabelValues("replace", metrics.OutcomeDuplicate))).To(Equal(1.0))
		})

		It("should keep swift codes unique when replacing over the in-memory store", func() {
			mem := memstore.New()
			s := service.NewSwiftService(repository.NewSwiftRepository(mem, nil), nil, m)

			_, err := s.CreateSwiftCode(ctx, hq())
			Expect(err).NotTo(HaveOccurred())
			other := hq()
			other.SwiftCode = "OTHRUS33XXX"
			otherID, err := s.CreateSwiftCode(ctx, other)
			Expect(err).NotTo(HaveOccurred())

			Expect(s.ReplaceSwiftCode(ctx, otherID, hq())).To(MatchError(service.ErrAlreadyExists))

			n, err := mem.CountDocuments(ctx, store.Filter{store.FieldSwiftCode: "ABCDUS33XXX"})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(1)))

			other.BankName = "Renamed Bank"
			Expect(s.ReplaceSwiftCode(ctx, otherID, other)).To(Succeed())
		})

		It("should map malformed identities to invalid input", func() {
			repo := &mocks.MockSwiftRepository{
				ReplaceFunc: func(ctx context.Context, id string, code models.SwiftCodeDetailed) (store.UpdateReceipt, error) {
					return store.UpdateReceipt{}, store.ErrInvalidID
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			Expect(s.ReplaceSwiftCode(ctx, "id", hq())).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("DeleteSwiftCode", func() {
		It("should delete by normalized code", func() {
			var filter store.Filter
			repo := &mocks.MockSwiftRepository{
				DeleteFunc: func(ctx context.Context, f store.Filter) (store.DeleteReceipt, error) {
					filter = f
					return store.DeleteReceipt{DeletedCount: 1}, nil
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			Expect(s.DeleteSwiftCode(ctx, "abcdus33")).To(Succeed())
			Expect(filter).To(Equal(store.Filter{store.FieldSwiftCode: "ABCDUS33XXX"}))
		})

		It("should return not found when nothing was deleted", func() {
			repo := &mocks.MockSwiftRepository{
				DeleteFunc: func(ctx context.Context, f store.Filter) (store.DeleteReceipt, error) {
					return store.DeleteReceipt{}, nil
				},
			}

			s := service.NewSwiftService(repo, nil, m)
			Expect(s.DeleteSwiftCode(ctx, "ABCDUS33XXX")).To(MatchError(service.ErrNotFound))
		})

		It("should reject malformed codes without touching the repository", func() {
			s := service.NewSwiftService(&mocks.MockSwiftRepository{}, nil, m)
			Expect(s.DeleteSwiftCode(ctx, "XYZ")).To(MatchError(service.ErrInvalidInput))
		})
	})

	It("should record durations for every operation", func() {
		repo := &mocks.MockSwiftRepository{
			DeleteFunc: func(ctx context.Context, f store.Filter) (store.DeleteReceipt, error) {
				time.Sleep(time.Millisecond)
				return store.DeleteReceipt{DeletedCount: 1}, nil
			},
		}
		s := service.NewSwiftService(repo, nil, m)
		Expect(s.DeleteSwiftCode(ctx, "ABCDUS33XXX")).To(Succeed())
		Expect(testutil.CollectAndCount(m.OperationDuration)).To(Equal(1))
	})
})
