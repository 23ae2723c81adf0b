package taxjar

// RateResponse is the payload of GET /v2/rates/{zip}. TaxJar encodes rate
// fractions as strings ("0.0625" means 6.25%).
type RateResponse struct {
	Rate struct {
		Zip                  string `json:"zip"`
		State                string `json:"state"`
		StateRate            string `json:"state_rate"`
		County               string `json:"county"`
		CountyRate           string `json:"county_rate"`
		City                 string `json:"city"`
		CityRate             string `json:"city_rate"`
		CombinedDistrictRate string `json:"combined_district_rate"`
		CombinedRate         string `json:"combined_rate"`
		FreightTaxable       bool   `json:"freight_taxable"`
	} `json:"rate"`
}

// taxesRequest is the payload of POST /v2/taxes.
type taxesRequest struct {
	FromCountry string         `json:"from_country"`
	FromZip     string         `json:"from_zip"`
	FromState   string         `json:"from_state"`
	ToCountry   string         `json:"to_country"`
	ToZip       string         `json:"to_zip"`
	ToState     string         `json:"to_state,omitempty"`
	Amount      float64        `json:"amount"`
	Shipping    float64        `json:"shipping"`
	LineItems   []taxesLineItem `json:"line_items,omitempty"`
}

type taxesLineItem struct {
	ID             string  `json:"id"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	ProductTaxCode string  `json:"product_tax_code,omitempty"`
}

// TaxesResponse is the payload of POST /v2/taxes. Unlike the rates endpoint,
// amounts and rates here are JSON numbers.
type TaxesResponse struct {
	Tax struct {
		AmountToCollect float64 `json:"amount_to_collect"`
		Rate            float64 `json:"rate"`
		TaxableAmount   float64 `json:"taxable_amount"`
		Breakdown       *struct {
			StateTaxCollectable           float64 `json:"state_tax_collectable"`
			CountyTaxCollectable          float64 `json:"county_tax_collectable"`
			CityTaxCollectable            float64 `json:"city_tax_collectable"`
			SpecialDistrictTaxCollectable float64 `json:"special_district_tax_collectable"`
		} `json:"breakdown"`
		Jurisdictions *struct {
			State  string `json:"state"`
			County string `json:"county"`
			City   string `json:"city"`
		} `json:"jurisdictions"`
	} `json:"tax"`
}

// errorResponse is TaxJar's error envelope for non-2xx statuses.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
}
