// Package repository define los tipos del dominio y las interfaces de
// acceso a datos del credential store.
//
// Las implementaciones viven en internal/store/pg. Los tests de los
// services usan fakes en memoria que implementan estas interfaces.
package repository
