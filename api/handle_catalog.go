package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/dto"
	"github.com/trilytx/trilytx-backend/pure_utils"
	"github.com/trilytx/trilytx-backend/usecases"
)

type TableUriInput struct {
	TableName string `uri:"table_name" binding:"required"`
}

func handleListCatalogTables(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usecase := uc.NewCatalogUsecase()
		tables, err := usecase.ListTables(ctx)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"tables": pure_utils.Map(tables, dto.AdaptCatalogTableDto)})
	}
}

func handleGetTableSchema(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var uri TableUriInput
		if err := c.ShouldBindUri(&uri); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewCatalogUsecase()
		schema, err := usecase.GetTableSchema(ctx, uri.TableName)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"schema": dto.AdaptTableSchemaDto(schema)})
	}
}

func handleListExamples(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		usecase := uc.NewCatalogUsecase()
		examples, err := usecase.ListExamples(ctx)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"examples": pure_utils.Map(examples, dto.AdaptExampleQuestionDto)})
	}
}
