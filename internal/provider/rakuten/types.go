package rakuten

// Raw wire shapes for the Ichiba item search API. The API wraps every item
// in an envelope object and reports flags as 0/1 integers; the normalizer
// translates all of that into domain types.

type searchResponse struct {
	Items     []itemEnvelope `json:"Items"`
	Count     int            `json:"count"`
	Page      int            `json:"page"`
	PageCount int            `json:"pageCount"`
	Hits      int            `json:"hits"`
	First     int            `json:"first"`
	Last      int            `json:"last"`
}

type itemEnvelope struct {
	Item rawItem `json:"Item"`
}

type rawItem struct {
	ItemCode        string     `json:"itemCode"`
	ItemName        string     `json:"itemName"`
	ItemCaption     string     `json:"itemCaption"`
	ItemURL         string     `json:"itemUrl"`
	ItemPrice       int64      `json:"itemPrice"`
	GenreID         string     `json:"genreId"`
	SmallImageURLs  []imageRef `json:"smallImageUrls"`
	MediumImageURLs []imageRef `json:"mediumImageUrls"`
	ShopCode        string     `json:"shopCode"`
	ShopName        string     `json:"shopName"`
	ShopURL         string     `json:"shopUrl"`
	ReviewAverage   float64    `json:"reviewAverage"`
	ReviewCount     int        `json:"reviewCount"`
	Availability    int        `json:"availability"`
	PostageFlag     int        `json:"postageFlag"`
	CreditCardFlag  int        `json:"creditCardFlag"`
	PointRate       int        `json:"pointRate"`
}

type imageRef struct {
	ImageURL string `json:"imageUrl"`
}
