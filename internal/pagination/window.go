package pagination

// AllowedLimits sayfa başına kayıt seçenekleri
var AllowedLimits = []int{10, 25, 50, 100}

const DefaultLimit = 10

// Item sayfa kontrolünde tek bir eleman: ya sayfa butonu ya ellipsis
type Item struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Window mevcut sayfa p ve toplam sayfa T için render edilecek elemanları döner.
//
// k sayfası şu durumda buton olarak render edilir: k==1, k==T veya p-2<=k<=p+2.
// k==p-3 ya da k==p+3 ise ellipsis konur, diğerleri atlanır.
func Window(page, pages int) []Item {
	if pages <= 0 {
		return nil
	}

	items := make([]Item, 0, 9)
	for k := 1; k <= pages; k++ {
		switch {
		case k == 1 || k == pages || (k >= page-2 && k <= page+2):
			items = append(items, Item{Number: k, Current: k == page})
		case k == page-3 || k == page+3:
			items = append(items, Item{Ellipsis: true})
		}
	}
	return items
}

// TotalPages ceil(total/limit)
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Clamp sayfayı [1, pages] aralığına çeker. pages==0 ise 1 döner.
func Clamp(page, pages int) int {
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// IsAllowedLimit limit değeri seçeneklerden biri mi?
func IsAllowedLimit(limit int) bool {
	for _, l := range AllowedLimits {
		if l == limit {
			return true
		}
	}
	return false
}
