package main

import (
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVCompanyToModel(t *testing.T) {
	row := csvCompany{
		CIN:               "U62011KA2020PTC000001",
		Name:              "Acme Technologies Private Limited",
		Class:             "Private",
		AuthorizedCapital: "1000000",
		PaidupCapital:     "500000.50",
		RegistrationDate:  "2020-04-01",
		Status:            "Active",
	}

	c, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, "U62011KA2020PTC000001", c.CIN)
	require.NotNil(t, c.AuthorizedCapital)
	assert.Equal(t, 1000000.0, *c.AuthorizedCapital)
	require.NotNil(t, c.PaidupCapital)
	assert.Equal(t, 500000.50, *c.PaidupCapital)
	require.NotNil(t, c.RegistrationDate)
	assert.Equal(t, time.Date(2020, time.April, 1, 0, 0, 0, 0, time.UTC), *c.RegistrationDate)
}

func TestCSVCompanyToModel_EmptyOptionals(t *testing.T) {
	c, err := csvCompany{CIN: "CIN-1", Name: "Bare Ltd"}.toModel()
	require.NoError(t, err)
	assert.Nil(t, c.AuthorizedCapital)
	assert.Nil(t, c.PaidupCapital)
	assert.Nil(t, c.RegistrationDate)
}

func TestCSVCompanyToModel_BadValues(t *testing.T) {
	_, err := csvCompany{CIN: "CIN-1", AuthorizedCapital: "a lot"}.toModel()
	assert.Error(t, err)

	_, err = csvCompany{CIN: "CIN-1", RegistrationDate: "01/04/2020"}.toModel()
	assert.Error(t, err)
}

func TestCSVDecodeExtract(t *testing.T) {
	extract := strings.Join([]string{
		"cin,company_name,company_class,authorized_capital,paidup_capital,company_registration_date,company_status",
		"CIN-1,Acme Ltd,Private,100000,,2019-06-15,Active",
		"CIN-2,Globex Ltd,Public,,,,Strike Off",
	}, "\n")

	dec, err := csvutil.NewDecoder(csv.NewReader(strings.NewReader(extract)))
	require.NoError(t, err)

	var rows []csvCompany
	for {
		var row csvCompany
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, row)
	}

	require.Len(t, rows, 2)
	assert.Equal(t, "Acme Ltd", rows[0].Name)
	assert.Equal(t, "100000", rows[0].AuthorizedCapital)
	assert.Empty(t, rows[0].PaidupCapital)
	assert.Equal(t, "Strike Off", rows[1].Status)

	first, err := rows[0].toModel()
	require.NoError(t, err)
	assert.Equal(t, 2019, first.RegistrationYear())
}
