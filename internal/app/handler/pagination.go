package handler

import (
	"strconv"

	"paytrack/internal/app/dto"
	"paytrack/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// pageFromQuery читает page и page_size, некорректные значения заменяются значениями по умолчанию
func pageFromQuery(c *gin.Context) repository.Page {
	number, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return repository.NewPage(number, size)
}

func paginatedResponse(items interface{}, totalRows int64, page repository.Page) dto.PaginatedResponse {
	return dto.PaginatedResponse{
		Items:       items,
		TotalRows:   totalRows,
		TotalPages:  page.TotalPages(totalRows),
		CurrentPage: page.Number,
		PageSize:    page.Size,
	}
}
