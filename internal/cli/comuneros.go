package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comunavision/go-admin/pkg/comuneros"
	"github.com/comunavision/go-admin/pkg/renderers/tui"
	"github.com/comunavision/go-admin/pkg/schema"
)

var (
	flagIncludeDeleted bool
	flagFilter         string
	flagExportFormat   string
	flagExportDir      string
	flagYes            bool
)

var comunerosCmd = &cobra.Command{
	Use:     "comuneros",
	Aliases: []string{"c"},
	Short:   "Gestiona los registros del padrón",
}

var comunerosListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lista los comuneros",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		records, err := app.Comuneros.List(cmd.Context(), flagIncludeDeleted)
		if err != nil {
			return err
		}
		records = comuneros.Filter(records, flagFilter)

		columns := comuneros.DynamicColumns(records)
		headers := append([]string{"ID", "Nombre", "Documento"}, columns...)
		if flagIncludeDeleted {
			headers = append(headers, "Estado")
		}

		t := newTable(headers...)
		for _, record := range records {
			row := []string{strconv.FormatInt(record.ID, 10), record.Nombre, record.Documento}
			for _, column := range columns {
				row = append(row, record.RenderValue(column))
			}
			if flagIncludeDeleted {
				state := "activo"
				if record.IsDeleted {
					state = "eliminado"
				}
				row = append(row, state)
			}
			t.addRow(row...)
		}
		fmt.Fprint(cmd.OutOrStdout(), t.render())
		return nil
	},
}

var comunerosCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Registra un comunero nuevo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		fields, err := app.Campos.Active(ctx)
		if err != nil {
			return err
		}

		input, err := collectComunero(ctx, fields, comuneros.Input{})
		if err != nil {
			return err
		}

		record, err := app.Comuneros.Create(ctx, input)
		if err != nil {
			return err
		}
		app.Logger.Info("comunero creado", zap.Int64("id", record.ID))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Creado #%d %s", record.ID, record.Nombre)))
		return nil
	},
}

var comunerosEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edita un comunero existente",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		record, err := app.Comuneros.Get(ctx, id)
		if err != nil {
			return err
		}
		fields, err := app.Campos.Active(ctx)
		if err != nil {
			return err
		}

		input, err := collectComunero(ctx, fields, comuneros.Input{
			Nombre:    record.Nombre,
			Documento: record.Documento,
			Datos:     record.Datos,
		})
		if err != nil {
			return err
		}

		updated, err := app.Comuneros.Update(ctx, id, input)
		if err != nil {
			return err
		}
		app.Logger.Info("comunero actualizado", zap.Int64("id", updated.ID))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Actualizado #%d %s", updated.ID, updated.Nombre)))
		return nil
	},
}

var comunerosDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Elimina (baja lógica) un comunero",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		ctx := cmd.Context()

		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		record, err := app.Comuneros.Get(ctx, id)
		if err != nil {
			return err
		}

		if !flagYes {
			ok, err := promptDriver().Confirm(ctx, tui.ConfirmConfig{
				Message: fmt.Sprintf("¿Eliminar a %s (doc. %s)?", record.Nombre, record.Documento),
			})
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
				return nil
			}
		}

		if err := app.Comuneros.Delete(ctx, id); err != nil {
			return err
		}
		app.Logger.Info("comunero eliminado", zap.Int64("id", id))
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("Eliminado #%d %s", id, record.Nombre)))
		return nil
	},
}

var comunerosExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Descarga el padrón como CSV o JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.requireSession(); err != nil {
			return err
		}
		export, err := app.Comuneros.Export(cmd.Context(), comuneros.ExportFormat(flagExportFormat), flagIncludeDeleted)
		if err != nil {
			return err
		}
		path, err := export.Save(flagExportDir)
		if err != nil {
			return err
		}
		app.Logger.Info("padrón exportado", zap.String("archivo", path), zap.Int("bytes", len(export.Data)))
		fmt.Fprintf(cmd.OutOrStdout(), "Exportado a %s\n", path)
		return nil
	},
}

// collectComunero prompts the fixed columns and then walks the dynamic
// fields through the TUI collector.
func collectComunero(ctx context.Context, fields []schema.FieldDescriptor, current comuneros.Input) (comuneros.Input, error) {
	driver := promptDriver()

	nombre, err := driver.Input(ctx, tui.InputConfig{Message: "Nombre", Default: current.Nombre})
	if err != nil {
		return comuneros.Input{}, err
	}
	documento, err := driver.Input(ctx, tui.InputConfig{Message: "Documento", Default: current.Documento})
	if err != nil {
		return comuneros.Input{}, err
	}

	datos, err := app.Prompts.Collect(ctx, fields, current.Datos)
	if err != nil {
		return comuneros.Input{}, err
	}
	return comuneros.Input{Nombre: nombre, Documento: documento, Datos: datos}, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("cli: id inválido %q", raw)
	}
	return id, nil
}

func init() {
	comunerosListCmd.Flags().BoolVar(&flagIncludeDeleted, "include-deleted", false, "incluye registros dados de baja")
	comunerosListCmd.Flags().StringVarP(&flagFilter, "filter", "f", "", "filtra por nombre o documento")
	comunerosExportCmd.Flags().StringVar(&flagExportFormat, "format", "csv", "formato de exportación (csv|json)")
	comunerosExportCmd.Flags().StringVarP(&flagExportDir, "dir", "d", ".", "directorio destino")
	comunerosExportCmd.Flags().BoolVar(&flagIncludeDeleted, "include-deleted", false, "incluye registros dados de baja")
	comunerosDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "no pedir confirmación")

	comunerosCmd.AddCommand(comunerosListCmd, comunerosCreateCmd, comunerosEditCmd, comunerosDeleteCmd, comunerosExportCmd)
}
