package main

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Karthik-beta/data-app/internal/model"
	"github.com/Karthik-beta/data-app/internal/store"
)

// csvCompany mirrors one registry extract row. Capital and date fields come
// through as strings because the extract leaves them empty for unknowns.
type csvCompany struct {
	CIN               string `csv:"cin"`
	Name              string `csv:"company_name"`
	ROCCode           string `csv:"company_roc_code"`
	Category          string `csv:"company_category"`
	SubCategory       string `csv:"company_sub_category"`
	Class             string `csv:"company_class"`
	AuthorizedCapital string `csv:"authorized_capital"`
	PaidupCapital     string `csv:"paidup_capital"`
	RegistrationDate  string `csv:"company_registration_date"`
	Address           string `csv:"registered_office_address"`
	ListingStatus     string `csv:"listing_status"`
	Status            string `csv:"company_status"`
	StateCode         string `csv:"company_state_code"`
	IndianForeign     string `csv:"company_indian_foreign"`
	NICCode           string `csv:"nic_code"`
	Industry          string `csv:"company_industrial_classification"`
}

const importDateLayout = "2006-01-02"

func (r csvCompany) toModel() (model.Company, error) {
	c := model.Company{
		CIN:           r.CIN,
		Name:          r.Name,
		ROCCode:       r.ROCCode,
		Category:      r.Category,
		SubCategory:   r.SubCategory,
		Class:         r.Class,
		Address:       r.Address,
		ListingStatus: r.ListingStatus,
		Status:        r.Status,
		StateCode:     r.StateCode,
		IndianForeign: r.IndianForeign,
		NICCode:       r.NICCode,
		Industry:      r.Industry,
	}
	if r.AuthorizedCapital != "" {
		v, err := strconv.ParseFloat(r.AuthorizedCapital, 64)
		if err != nil {
			return c, eris.Wrapf(err, "import: authorized capital for %s", r.CIN)
		}
		c.AuthorizedCapital = &v
	}
	if r.PaidupCapital != "" {
		v, err := strconv.ParseFloat(r.PaidupCapital, 64)
		if err != nil {
			return c, eris.Wrapf(err, "import: paid-up capital for %s", r.CIN)
		}
		c.PaidupCapital = &v
	}
	if r.RegistrationDate != "" {
		d, err := time.Parse(importDateLayout, r.RegistrationDate)
		if err != nil {
			return c, eris.Wrapf(err, "import: registration date for %s", r.CIN)
		}
		c.RegistrationDate = &d
	}
	return c, nil
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Bulk-load a registry CSV extract into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "import: open %s", args[0])
		}
		defer f.Close()

		dec, err := csvutil.NewDecoder(csv.NewReader(f))
		if err != nil {
			return eris.Wrap(err, "import: read csv header")
		}

		batchID := uuid.New().String()
		log := zap.L().With(zap.String("batch_id", batchID), zap.String("file", args[0]))
		log.Info("import started")

		batchSize := cfg.Import.BatchSize
		if batchSize <= 0 {
			batchSize = 5000
		}

		var batch []model.Company
		var imported int64
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := st.ImportCompanies(ctx, batch)
			if err != nil {
				return err
			}
			imported += n
			log.Info("batch loaded", zap.Int64("rows", n), zap.Int64("total", imported))
			batch = batch[:0]
			return nil
		}

		for {
			var row csvCompany
			if err := dec.Decode(&row); err == io.EOF {
				break
			} else if err != nil {
				return eris.Wrap(err, "import: decode row")
			}
			if row.CIN == "" {
				log.Warn("skipping row without cin")
				continue
			}
			c, err := row.toModel()
			if err != nil {
				return err
			}
			batch = append(batch, c)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		log.Info("import complete", zap.Int64("rows", imported))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
