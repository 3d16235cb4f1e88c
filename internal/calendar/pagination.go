package calendar

// Размер страницы по умолчанию и верхняя граница.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize подставляет дефолты для некорректных page/pageSize.
func Normalize(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize
}

// Window переводит page/pageSize в limit/offset для запроса к БД.
func Window(page, pageSize int) (limit, offset int) {
	page, pageSize = Normalize(page, pageSize)
	return pageSize, (page - 1) * pageSize
}

// PageOf собирает страницу из уже отрезанной в БД выборки и общего числа записей.
func PageOf[T any](items []T, page, pageSize int, total int64) Page[T] {
	page, pageSize = Normalize(page, pageSize)
	end := (page-1)*pageSize + len(items)
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasNext:  int64(end) < total,
		HasPrev:  page > 1,
		Total:    int(total),
	}
}

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T  `json:"items"`     // элементы на текущей странице
	Page     int  `json:"page"`      // номер страницы (с 1)
	PageSize int  `json:"page_size"` // количество элементов на странице
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	Total    int  `json:"total"` // общее количество элементов
}

// Paginate возвращает срез items для указанной страницы и метаданные.
// page нумеруется с 1. При некорректных значениях используются дефолты.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	page, pageSize = Normalize(page, pageSize)

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	pageItems := items[start:end]

	hasPrev := page > 1
	hasNext := end < total

	return Page[T]{
		Items:    pageItems,
		Page:     page,
		PageSize: pageSize,
		HasNext:  hasNext,
		HasPrev:  hasPrev,
		Total:    total,
	}
}
