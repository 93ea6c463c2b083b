package graph

import (
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"

	"github.com/financy/financy-backend/internal/domain"
	"github.com/financy/financy-backend/internal/service"
)

// Resolver bundles the services the schema resolves against
type Resolver struct {
	auth         *service.AuthService
	users        *service.UserService
	categories   *service.CategoryService
	transactions *service.TransactionService
	dashboard    *service.DashboardService
}

// NewResolver creates a new Resolver
func NewResolver(
	auth *service.AuthService,
	users *service.UserService,
	categories *service.CategoryService,
	transactions *service.TransactionService,
	dashboard *service.DashboardService,
) *Resolver {
	return &Resolver{
		auth:         auth,
		users:        users,
		categories:   categories,
		transactions: transactions,
		dashboard:    dashboard,
	}
}

// NewSchema builds the executable schema around the given resolver
func NewSchema(r *Resolver) (graphql.Schema, error) {
	transactionTypeEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "TransactionType",
		Values: graphql.EnumValueConfigMap{
			"INPUT":  &graphql.EnumValueConfig{Value: string(domain.TransactionTypeInput)},
			"OUTPUT": &graphql.EnumValueConfig{Value: string(domain.TransactionTypeOutput)},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":           &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":             &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":      &graphql.Field{Type: graphql.String},
			"icon":             &graphql.Field{Type: graphql.String},
			"color":            &graphql.Field{Type: graphql.String},
			"transactionCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt":        &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":        &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	transactionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Transaction",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"categoryId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"amount":     &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"type":       &graphql.Field{Type: graphql.NewNonNull(transactionTypeEnum)},
			"date":       &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"createdAt":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt":  &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	resolveOwner := func(p graphql.ResolveParams, ownerID string) (interface{}, error) {
		if _, err := requireUser(p.Context); err != nil {
			return nil, err
		}
		userID, err := uuid.Parse(ownerID)
		if err != nil {
			return nil, errInvalidID
		}
		user, err := r.users.GetUserByID(userID)
		if err != nil {
			return nil, wrapErr(err)
		}
		return toUser(user), nil
	}

	categoryType.AddFieldConfig("user", &graphql.Field{
		Type: userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			c, ok := p.Source.(*Category)
			if !ok {
				return nil, nil
			}
			return resolveOwner(p, c.UserID)
		},
	})

	transactionType.AddFieldConfig("user", &graphql.Field{
		Type: userType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			t, ok := p.Source.(*Transaction)
			if !ok {
				return nil, nil
			}
			return resolveOwner(p, t.UserID)
		},
	})

	// Category rows carry a live transaction count; resolve it lazily on
	// transactions to avoid a count query per row
	transactionType.AddFieldConfig("category", &graphql.Field{
		Type: categoryType,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			identity, err := requireUser(p.Context)
			if err != nil {
				return nil, err
			}
			t, ok := p.Source.(*Transaction)
			if !ok {
				return nil, nil
			}
			categoryID, err := uuid.Parse(t.CategoryID)
			if err != nil {
				return nil, errInvalidID
			}
			category, err := r.categories.GetCategoryByID(identity.ID, categoryID)
			if err != nil {
				return nil, wrapErr(err)
			}
			return toCategory(category), nil
		},
	})

	monthlySummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MonthlySummary",
		Fields: graphql.Fields{
			"year":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"month":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"income":  &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"expense": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"balance": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"refreshToken": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":         &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	createUserInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	createCategoryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"icon":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"color":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	updateCategoryInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCategoryInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"icon":        &graphql.InputObjectFieldConfig{Type: graphql.String},
			"color":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	createTransactionInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CreateTransactionInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"amount":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"type":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(transactionTypeEnum)},
			"categoryId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"date":       &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			// Accepted for wire compatibility, never trusted: ownership
			// comes from the authenticated identity
			"userId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
		},
	})

	updateTransactionInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateTransactionInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"amount":     &graphql.InputObjectFieldConfig{Type: graphql.Float},
			"type":       &graphql.InputObjectFieldConfig{Type: transactionTypeEnum},
			"categoryId": &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"date":       &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getUsers": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(userType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					users, err := r.users.GetUsers()
					if err != nil {
						return nil, wrapErr(err)
					}
					return toUsers(users), nil
				},
			},
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					user, err := r.users.GetUserByID(identity.ID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return toUser(user), nil
				},
			},
			"listCategories": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(categoryType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					categories, err := r.categories.GetCategories(identity.ID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return toCategories(categories), nil
				},
			},
			"listTransactions": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(transactionType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					transactions, err := r.transactions.GetTransactions(identity.ID)
					if err != nil {
						return nil, wrapErr(err)
					}
					return toTransactions(transactions), nil
				},
			},
			"monthlySummary": &graphql.Field{
				Type: monthlySummaryType,
				Args: graphql.FieldConfigArgument{
					"year":  &graphql.ArgumentConfig{Type: graphql.Int},
					"month": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					year, haveYear := intArg(p.Args, "year")
					month, haveMonth := intArg(p.Args, "month")

					var summary *domain.MonthlySummary
					if haveYear && haveMonth {
						summary, err = r.dashboard.GetSummaryForMonth(identity.ID, year, month)
					} else {
						summary, err = r.dashboard.GetSummary(identity.ID)
					}
					if err != nil {
						return nil, wrapErr(err)
					}
					return toMonthlySummary(summary), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					data := argsMap(p.Args["data"])
					payload, err := r.auth.Register(stringArg(data, "name"), stringArg(data, "email"), stringArg(data, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return toAuthPayload(payload), nil
				},
			},
			"login": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					data := argsMap(p.Args["data"])
					payload, err := r.auth.Login(stringArg(data, "email"), stringArg(data, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return toAuthPayload(payload), nil
				},
			},
			"refreshToken": &graphql.Field{
				Type: authPayloadType,
				Args: graphql.FieldConfigArgument{
					"refreshToken": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payload, err := r.auth.Refresh(stringArg(p.Args, "refreshToken"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return toAuthPayload(payload), nil
				},
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createUserInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					data := argsMap(p.Args["data"])
					user, err := r.users.CreateUser(stringArg(data, "name"), stringArg(data, "email"), stringArg(data, "password"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return toUser(user), nil
				},
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					user, err := r.users.UpdateUser(identity.ID, stringArg(p.Args, "name"))
					if err != nil {
						return nil, wrapErr(err)
					}
					return toUser(user), nil
				},
			},
			"createCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createCategoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					data := argsMap(p.Args["data"])
					category, err := r.categories.CreateCategory(identity.ID, service.CreateCategoryInput{
						Name:        stringArg(data, "name"),
						Description: stringArg(data, "description"),
						Icon:        stringArg(data, "icon"),
						Color:       stringArg(data, "color"),
					})
					if err != nil {
						return nil, wrapErr(err)
					}
					return toCategory(category), nil
				},
			},
			"updateCategory": &graphql.Field{
				Type: categoryType,
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateCategoryInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p.Args, "id")
					if err != nil {
						return nil, err
					}
					data := argsMap(p.Args["data"])
					category, err := r.categories.UpdateCategory(identity.ID, id, &domain.CategoryChanges{
						Name:        optStringArg(data, "name"),
						Description: optStringArg(data, "description"),
						Icon:        optStringArg(data, "icon"),
						Color:       optStringArg(data, "color"),
					})
					if err != nil {
						return nil, wrapErr(err)
					}
					return toCategory(category), nil
				},
			},
			"deleteCategory": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p.Args, "id")
					if err != nil {
						return nil, err
					}
					if err := r.categories.DeleteCategory(identity.ID, id); err != nil {
						return nil, wrapErr(err)
					}
					return true, nil
				},
			},
			"createTransaction": &graphql.Field{
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(createTransactionInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					data := argsMap(p.Args["data"])
					categoryID, err := uuidArg(data, "categoryId")
					if err != nil {
						return nil, err
					}
					input := service.CreateTransactionInput{
						Title:      stringArg(data, "title"),
						Amount:     decimal.NewFromFloat(floatArg(data, "amount")),
						Type:       domain.TransactionType(stringArg(data, "type")),
						CategoryID: categoryID,
					}
					if date, ok := timeArg(data, "date"); ok {
						input.Date = date
					}
					transaction, err := r.transactions.CreateTransaction(identity.ID, input)
					if err != nil {
						return nil, wrapErr(err)
					}
					return toTransaction(transaction), nil
				},
			},
			"updateTransaction": &graphql.Field{
				Type: transactionType,
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateTransactionInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p.Args, "id")
					if err != nil {
						return nil, err
					}
					data := argsMap(p.Args["data"])
					changes := &domain.TransactionChanges{
						Title: optStringArg(data, "title"),
					}
					if amount := optFloatArg(data, "amount"); amount != nil {
						d := decimal.NewFromFloat(*amount)
						changes.Amount = &d
					}
					if s := optStringArg(data, "type"); s != nil {
						t := domain.TransactionType(*s)
						changes.Type = &t
					}
					if _, ok := data["categoryId"]; ok {
						categoryID, err := uuidArg(data, "categoryId")
						if err != nil {
							return nil, err
						}
						changes.CategoryID = &categoryID
					}
					if date, ok := timeArg(data, "date"); ok {
						changes.Date = &date
					}
					transaction, err := r.transactions.UpdateTransaction(identity.ID, id, changes)
					if err != nil {
						return nil, wrapErr(err)
					}
					return toTransaction(transaction), nil
				},
			},
			"deleteTransaction": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					identity, err := requireUser(p.Context)
					if err != nil {
						return nil, err
					}
					id, err := uuidArg(p.Args, "id")
					if err != nil {
						return nil, err
					}
					if err := r.transactions.DeleteTransaction(identity.ID, id); err != nil {
						return nil, wrapErr(err)
					}
					return true, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
