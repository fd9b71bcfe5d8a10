package models

import "github.com/google/uuid"

// ensureID assigns a uuid primary key when the caller did not set one.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns the models handed to AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Cliente{},
		&Fornecedor{},
		&Produto{},
		&Encomenda{},
		&ItemEncomenda{},
		&Pagamento{},
		&PagamentoFornecedor{},
		&Transporte{},
		&Projeto{},
		&Amostra{},
		&Attachment{},
	}
}
